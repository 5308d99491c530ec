package crm

import (
	"errors"
	"fmt"
)

// ErrInvalidFileType is returned when an upload is not a PDF. It is
// raised before the extraction provider is ever called.
var ErrInvalidFileType = errors.New("only PDF invoices are supported")

// ErrStoreNotLoaded is returned by mutations attempted before the store
// has completed its initial load.
var ErrStoreNotLoaded = errors.New("store not loaded")

// ErrNoBackupData is returned when a backup is requested on an empty store.
var ErrNoBackupData = errors.New("no data to back up")

func errNotFound(kind, id string) error {
	return fmt.Errorf("%s not found: %s", kind, id)
}

// DuplicateInvoiceError indicates an invoice with the same MARK already
// exists somewhere in the store. The failed call commits no change.
type DuplicateInvoiceError struct {
	Mark string
}

func (e *DuplicateInvoiceError) Error() string {
	return fmt.Sprintf("an invoice with MARK %s already exists", e.Mark)
}

// ExtractionError wraps a failure of the extraction provider: network
// errors, unparseable responses, or responses missing required fields.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("analyzing invoice: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
