package crm

import (
	"encoding/base64"
	"log/slog"

	"github.com/theolivist/olivecrm/internal/extraction"
)

const pdfMediaType = "application/pdf"

// Service orchestrates invoice ingestion: validate the upload, delegate
// to the extraction provider, map the result into the record model, and
// commit it through the store.
type Service struct {
	store     *Store
	extractor extraction.Extractor
	archive   Archive
}

// NewService creates a new ingestion Service
func NewService(store *Store, extractor extraction.Extractor, archive Archive) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		archive:   archive,
	}
}

// dataURL builds the self-contained document reference stored on the invoice
func dataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Ingest turns one uploaded file into a committed invoice.
//
// Failure classes are distinguishable by the caller: ErrInvalidFileType
// for non-PDF uploads (raised before the extraction provider is called),
// *ExtractionError for provider failures, and *DuplicateInvoiceError when
// the store rejects the MARK. Nothing is committed on any failure path.
func (s *Service) Ingest(filename string, data []byte, contentType string) (*Invoice, error) {
	if contentType != pdfMediaType {
		return nil, ErrInvalidFileType
	}

	fields, err := s.extractor.ExtractInvoice(data, contentType)
	if err != nil {
		slog.Error("Failed to extract invoice fields",
			"filename", filename,
			"file_size", len(data),
			"error", err,
		)
		return nil, &ExtractionError{Err: err}
	}

	lineItems := make([]LineItem, len(fields.LineItems))
	for i, item := range fields.LineItems {
		lineItems[i] = LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		}
	}

	invoice := Invoice{
		InvoiceNumber: fields.InvoiceNumber,
		Mark:          fields.Mark,
		Date:          fields.Date,
		TotalAmount:   fields.TotalAmount,
		LineItems:     lineItems,
		PDFSource:     dataURL(pdfMediaType, data),
	}

	committed, err := s.store.AddInvoice(fields.CustomerName, invoice)
	if err != nil {
		return nil, err
	}

	// The record is committed at this point; an archive failure only
	// costs the untouched original, the data URL still has the document.
	if _, err := s.archive.Save(pdfFilename(committed.ID), data); err != nil {
		slog.Warn("Failed to archive original PDF", "invoice_id", committed.ID, "error", err)
	}

	return committed, nil
}

// InvoicePDF returns the archived original document for an invoice
func (s *Service) InvoicePDF(invoiceID string) ([]byte, error) {
	name, ok := s.store.InvoicePDFName(invoiceID)
	if !ok {
		return nil, errNotFound("invoice", invoiceID)
	}
	return s.archive.Get(name)
}
