// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks user and backend input before it reaches the
// catalog.
//
// A [Validator] validates a value as a whole or, when field names are given,
// only the named fields. Unknown fields and unsupported types are errors so
// that a typo in a field list does not silently validate nothing.
package validators

import "context"

// Validator validates obj, optionally restricted to the named fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
