// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the gallery client process.
//
// [App] owns every long-lived resource (catalog database, backend adapter,
// tracer provider, event publisher) and wires them into the client services.
// [NewRootCommand] exposes the services as cobra subcommands: one-shot
// catalog operations, explicit sync passes, the background watch mode and
// the terminal viewer.
package client
