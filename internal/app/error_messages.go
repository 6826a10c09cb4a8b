// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the application-layer vocabulary shared by the
// store, adapter and service layers: the closed set of failure kinds every
// error is classified into, and the human-readable messages written into
// catalog rows, notices and log entries.
package app

const (
	// MsgNetworkUnavailable describes a transport failure (no connectivity,
	// DNS failure, timeout).
	MsgNetworkUnavailable = "network unavailable"

	// MsgUnauthorized is used when the backend rejects the identity header.
	MsgUnauthorized = "unauthorized"

	// MsgNoIdentity is used when an operation needs a signed-in account and
	// none is present.
	MsgNoIdentity = "no signed-in identity"

	// MsgRemoteRejected is the fallback message for a backend rejection that
	// carried no message of its own.
	MsgRemoteRejected = "remote rejected the request"

	// MsgImageUnreadable is recorded when the local image bytes of a pending
	// create cannot be loaded.
	MsgImageUnreadable = "local image unreadable"

	// MsgImageNotLocal is used when a content reference does not point into
	// local storage.
	MsgImageNotLocal = "image reference is not a local file"

	// MsgRecordNotFound is used when a catalog row does not exist.
	MsgRecordNotFound = "record not found"

	// MsgUnexpectedFailure is recorded for a push item whose processing
	// panicked.
	MsgUnexpectedFailure = "unexpected failure while syncing item"

	// MsgSyncFailedPrefix prefixes a pull failure surfaced to the user.
	MsgSyncFailedPrefix = "sync failed: "
)
