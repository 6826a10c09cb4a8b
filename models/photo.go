// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// RemoteKeyPrefix prefixes the local key of every row that originates from
// a remote catalog pull. Repeated pulls of the same remote photo therefore
// upsert the same row.
const RemoteKeyPrefix = "remote-"

// PhotoRecord is a single entry of the local photo catalog.
type PhotoRecord struct {
	// LocalKey is the primary key. It is assigned once on creation and never
	// reused.
	LocalKey string `json:"local_key"`

	// RemoteKey is the server-side identifier. Nil until the record is known
	// to exist on the server.
	RemoteKey *string `json:"remote_key,omitempty"`

	// OwnerIdentity is the account the record belongs to. Nil while no
	// session exists.
	OwnerIdentity *string `json:"owner_identity,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// LocalContentRef points to the image bytes owned by local storage
	// (file:// URI), or to the server URL for rows created by a pull.
	LocalContentRef string `json:"local_content_ref"`

	// RemoteContentRef is the server-hosted image URL once synced.
	RemoteContentRef *string `json:"remote_content_ref,omitempty"`

	SyncState     SyncState `json:"sync_state"`
	PendingDelete bool      `json:"pending_delete"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`

	// LastError holds the message of the most recent failed sync attempt.
	LastError *string `json:"last_error,omitempty"`

	// Attempts counts consecutive failed push attempts. It is reset by a
	// successful sync and by a local edit.
	Attempts int `json:"attempts"`
}

// RemoteDerived reports whether the record was created by a remote pull.
func (p PhotoRecord) RemoteDerived() bool {
	return len(p.LocalKey) > len(RemoteKeyPrefix) && p.LocalKey[:len(RemoteKeyPrefix)] == RemoteKeyPrefix
}

// DisplayRef returns the reference a viewer should load the image from.
func (p PhotoRecord) DisplayRef() string {
	if p.RemoteContentRef != nil && *p.RemoteContentRef != "" {
		return *p.RemoteContentRef
	}
	return p.LocalContentRef
}

// RemoteLocalKey builds the deterministic local key for a remote photo id.
func RemoteLocalKey(id string) string {
	return RemoteKeyPrefix + id
}

// PhotoDraft is the user-supplied content of a new photo.
type PhotoDraft struct {
	Title       string
	Description string
	Image       []byte
}

// PhotoEdit is a local edit of an existing catalog row. An empty Image keeps
// the current content.
type PhotoEdit struct {
	LocalKey    string
	Title       string
	Description string
	Image       []byte
}

// PhotoUpdate describes a partial update of an already uploaded photo. Nil
// fields (and an empty Image) are omitted from the request, and the server
// keeps its current value.
type PhotoUpdate struct {
	RemoteKey   string
	Title       *string
	Description *string
	Image       []byte
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
