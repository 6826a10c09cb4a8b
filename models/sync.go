package models

import (
	"fmt"
	"time"
)

// SyncState is the synchronization status of a [PhotoRecord].
type SyncState string

const (
	Synced        SyncState = "synced"
	PendingCreate SyncState = "pending_create"
	PendingUpdate SyncState = "pending_update"
	PendingDelete SyncState = "pending_delete"
	Failed        SyncState = "failed"
)

// Valid reports whether s is one of the known states.
func (s SyncState) Valid() bool {
	switch s {
	case Synced, PendingCreate, PendingUpdate, PendingDelete, Failed:
		return true
	}
	return false
}

// Scan implements sql.Scanner so the state can be read straight from a
// TEXT column.
func (s *SyncState) Scan(src any) error {
	var v string
	switch t := src.(type) {
	case string:
		v = t
	case []byte:
		v = string(t)
	default:
		return fmt.Errorf("unsupported sync state type %T", src)
	}
	if !SyncState(v).Valid() {
		return fmt.Errorf("unknown sync state %q", v)
	}
	*s = SyncState(v)
	return nil
}

// SyncOp names the remote operation a push step performed.
type SyncOp string

const (
	OpPull   SyncOp = "pull"
	OpCreate SyncOp = "create"
	OpUpdate SyncOp = "update"
	OpDelete SyncOp = "delete"
)

// PushReport summarizes a single push pass.
type PushReport struct {
	Total   int
	Synced  int
	Deleted int
	Failed  int
	Skipped int
}

func (r PushReport) String() string {
	return fmt.Sprintf("total=%d synced=%d deleted=%d failed=%d skipped=%d",
		r.Total, r.Synced, r.Deleted, r.Failed, r.Skipped)
}

// SyncEvent is emitted for every item outcome of a push pass.
type SyncEvent struct {
	LocalKey  string    `json:"local_key"`
	RemoteKey *string   `json:"remote_key,omitempty"`
	Op        SyncOp    `json:"op"`
	State     SyncState `json:"state"`
	Removed   bool      `json:"removed,omitempty"`
	Message   string    `json:"message,omitempty"`
	At        time.Time `json:"at"`
}
