package service

import (
	"errors"

	"github.com/MKhiriev/go-photo-sync/internal/validators"
)

var (
	ErrEmptyImage          = validators.ErrEmptyImage
	ErrUnexpectedPassValue = errors.New("push pass returned an unexpected value")
)
