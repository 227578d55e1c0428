package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrThreadNotFound is returned when a thread does not exist
	ErrThreadNotFound = errors.New("thread not found")

	// ErrQuotationNotFound is returned when a quotation does not exist in the thread
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrDocumentNotFound is returned when a document does not exist in the thread
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVesselNotFound is returned when a vessel does not exist
	ErrVesselNotFound = errors.New("vessel not found")

	// ErrRefIDInUse is returned when a reference number is already taken by another thread
	ErrRefIDInUse = errors.New("reference number already in use")

	// ErrInvalidFileType is returned when an upload is not an accepted file type
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrInvalidSerialFormat is returned when a vessel serial format is malformed
	ErrInvalidSerialFormat = errors.New("invalid serial format")

	// ErrStoreUnavailable wraps database or blob store failures. Callers map
	// it to 503; retrying is left to the client.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// PreconditionError reports which state-machine guard rejected a transition
type PreconditionError struct {
	Guard  string
	Detail string
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed (%s): %s", e.Guard, e.Detail)
}

// NewPreconditionError creates a guard failure error
func NewPreconditionError(guard, detail string) *PreconditionError {
	return &PreconditionError{Guard: guard, Detail: detail}
}

// AsPrecondition unwraps err into a PreconditionError if it is one
func AsPrecondition(err error) (*PreconditionError, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// storeErr wraps unexpected persistence failures so handlers can map them
// to 503 while keeping the cause in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %v", ErrStoreUnavailable, op, err)
}
