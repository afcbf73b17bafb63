package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a uniqueness constraint is violated.
	ErrConflict = errors.New("conflict")

	ErrInvalidArgument         = errors.New("invalid argument")
	ErrKeyUnrecoverable        = errors.New("key material unrecoverable")
	ErrKeyNotFound             = errors.New("key material not found")
	ErrContentTampered         = errors.New("content does not match attested hash")
	ErrSignatureInvalid        = errors.New("signature invalid")
	ErrCodeAllocationExhausted = errors.New("verification code allocation exhausted")
	ErrTOTPCodeInvalid         = errors.New("totp code invalid")
	ErrTOTPNotEnabled          = errors.New("totp not enabled")
	ErrFileRejected            = errors.New("file rejected")
)

// RejectReason explains why an upload failed integrity validation.
type RejectReason string

const (
	RejectTooLarge             RejectReason = "too_large"
	RejectExtensionDenied      RejectReason = "extension_denied"
	RejectExtensionUnsupported RejectReason = "extension_unsupported"
	RejectMimeMismatch         RejectReason = "mime_mismatch"
	RejectSignatureMismatch    RejectReason = "signature_mismatch"
	RejectNoExtension          RejectReason = "no_extension"
)

// FileRejectedError is returned by the file validator. It matches
// ErrFileRejected with errors.Is.
type FileRejectedError struct {
	Reason RejectReason
	Detail string
}

func (e *FileRejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("file rejected: %s", e.Reason)
	}
	return fmt.Sprintf("file rejected: %s: %s", e.Reason, e.Detail)
}

func (e *FileRejectedError) Is(target error) bool {
	return target == ErrFileRejected
}

// NewFileRejected creates a FileRejectedError.
func NewFileRejected(reason RejectReason, detail string) *FileRejectedError {
	return &FileRejectedError{Reason: reason, Detail: detail}
}

// InvalidArgument wraps ErrInvalidArgument with a description of the bad input.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
