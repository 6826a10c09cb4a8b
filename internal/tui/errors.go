// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-photo-sync/internal/app"
)

var errNotSignedIn = errors.New("not signed in, run `gallery login <identity>` first")

// humanizeError turns an engine error into the line shown in the footer.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch app.KindOf(err) {
	case app.KindTransport:
		return "Network unavailable or server unreachable"
	case app.KindAuth:
		return "Identity rejected by the server"
	default:
		return app.Message(err)
	}
}
