package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyLocalKey = errors.New("local key is required")
	ErrEmptyImage    = errors.New("image must not be empty")
	ErrImageTooLarge = errors.New("image exceeds the size limit")
	ErrInvalidTitle  = errors.New("title must be valid UTF-8 without control characters")
	ErrEmptyRemoteID = errors.New("remote photo id is required")
	ErrEmptyIdentity = errors.New("identity is required")
)
