package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")

	ErrDuplicateSlug      = errors.New("a product type with this slug already exists")
	ErrInvalidStatus      = errors.New("status must be one of: active, inactive")
	ErrProductTypeMissing = errors.New("product type not found")
	ErrDuplicateRequest   = errors.New("duplicate request")

	ErrNoFiles          = errors.New("no files provided")
	ErrUnsupportedMedia = errors.New("file is not an image")
	ErrFileTooLarge     = errors.New("file exceeds the 5MB limit")
	ErrUploadFailed     = errors.New("failed to upload images")
)

// ValidationError carries a client-facing message for rejected input. It
// matches ErrValidation under errors.Is and unwraps to an optional cause.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Cause }
