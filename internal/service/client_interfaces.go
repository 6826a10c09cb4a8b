package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-photo-sync/models"
)

// ClientSyncService reconciles the local catalog with the gallery backend.
// Both passes are idempotent: running them again after a crash or a
// partial failure converges on the same state.
type ClientSyncService interface {
	// PullFromRemote fetches the remote catalog for identity and upserts it
	// as Synced rows keyed by "remote-<id>". A blank identity is a no-op and
	// an unauthorized identity keeps the cached catalog; any other failure
	// is returned and leaves the catalog untouched.
	PullFromRemote(ctx context.Context, identity string) error

	// PushPending uploads the pending queue for identity one item at a time.
	// A failing item is marked Failed and never aborts the pass. At most one
	// pass runs per identity; concurrent callers share its report.
	PushPending(ctx context.Context, identity string) (models.PushReport, error)

	// Sync runs a pull followed by a push. The push runs even when the pull
	// fails; the pull error is returned together with the push report.
	Sync(ctx context.Context, identity string) (models.PushReport, error)
}

// ClientCatalogService is the read side of the local catalog used by the
// front ends.
type ClientCatalogService interface {
	// Observe streams visible catalog snapshots until ctx is done.
	Observe(ctx context.Context) <-chan []models.PhotoRecord
	// List returns the visible catalog once.
	List(ctx context.Context) ([]models.PhotoRecord, error)
	// Get returns a visible record; app.ErrNotFound when it is missing or
	// marked for deletion.
	Get(ctx context.Context, localKey string) (models.PhotoRecord, error)
}

// ClientMutationService turns user actions into local catalog writes. It
// never talks to the network.
type ClientMutationService interface {
	// Create stores the image and inserts a PendingCreate record with a new
	// local key.
	Create(ctx context.Context, draft models.PhotoDraft) (models.PhotoRecord, error)

	// Edit replaces title and description, and the image when image is not
	// empty. A missing record is a no-op.
	Edit(ctx context.Context, localKey, title, description string, image []byte) error

	// Delete removes a never-uploaded record immediately and tombstones an
	// uploaded one. A missing record is a no-op.
	Delete(ctx context.Context, localKey string) error
}

// ClientSessionService manages the signed-in identity the sync engine acts
// for.
type ClientSessionService interface {
	// SignIn persists identity and immediately runs a sync for it.
	SignIn(ctx context.Context, identity string) (models.PushReport, error)

	// SignOut forgets the identity. Cached rows stay in the catalog.
	SignOut(ctx context.Context) error

	// Current returns the signed-in identity.
	Current(ctx context.Context) (identity string, ok bool, err error)

	// Identity returns the signed-in identity or "" when signed out or the
	// session cannot be read.
	Identity(ctx context.Context) string
}

// IdentityFunc supplies the identity a background sync should run for.
type IdentityFunc func(ctx context.Context) string

// ClientSyncJob periodically runs Sync for the current identity.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It syncs every interval,
	// defaulting to 5 minutes if interval is zero or negative. Any previously
	// running job is stopped before the new one begins.
	Start(ctx context.Context, identity IdentityFunc, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated.
	Stop()
}

// KeyGenerator produces local keys for new records.
type KeyGenerator interface {
	Generate() string
}
