// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// groupErrors maps a top-level [ClientConfig] field to the sentinel returned
// when any of its nested fields fails validation.
var groupErrors = map[string]error{
	"App":       ErrInvalidAppConfigs,
	"Adapter":   ErrInvalidAdapterConfigs,
	"Storage":   ErrInvalidStorageConfigs,
	"Workers":   ErrInvalidWorkerConfigs,
	"Sync":      ErrInvalidSyncConfigs,
	"Telemetry": ErrInvalidTelemetryConfigs,
	"Events":    ErrInvalidEventsConfigs,
}

// validate checks the struct tags of the client view and reports the first
// failing group as its sentinel error, wrapped with the offending field.
func (cfg *ClientConfig) validate() error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("error validating client config: %w", err)
	}

	fe := verrs[0]
	// namespace looks like "ClientConfig.Adapter.BaseURL"
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		if sentinel, ok := groupErrors[parts[1]]; ok {
			return fmt.Errorf("%w: %s failed on %q", sentinel, fe.StructNamespace(), fe.Tag())
		}
	}

	return fmt.Errorf("error validating client config: %w", err)
}
