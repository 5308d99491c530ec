package crm

import (
	"fmt"
	"os"
	"path/filepath"
)

// Archive stores the original uploaded PDFs. Records carry a
// self-contained data URL as well, so the archive is a convenience for
// serving the untouched document, not the system of record.
type Archive interface {
	// Save saves a file and returns the stored filename
	Save(filename string, data []byte) (string, error)

	// Get retrieves a file by name
	Get(filename string) ([]byte, error)

	// Delete removes a file
	Delete(filename string) error
}

// pdfFilename is the archive name for an invoice's original document
func pdfFilename(invoiceID string) string {
	return invoiceID + ".pdf"
}

// LocalArchive implements the Archive interface on the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new LocalArchive instance
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return &LocalArchive{
		basePath: basePath,
	}, nil
}

// Save writes a file into the archive
func (l *LocalArchive) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a file from the archive
func (l *LocalArchive) Get(filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, filename))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a file from the archive
func (l *LocalArchive) Delete(filename string) error {
	if err := os.Remove(filepath.Join(l.basePath, filename)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
