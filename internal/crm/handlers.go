package crm

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Error codes returned to the client so it can word the three upload
// failure classes differently.
const (
	codeInvalidFileType  = "invalid_file_type"
	codeDuplicateInvoice = "duplicate_invoice"
	codeExtractionFailed = "extraction_failed"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes a JSON response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError encodes a JSON error body with an optional machine-readable code
func writeError(w http.ResponseWriter, status int, message, code string) {
	setCORSHeaders(w)
	body := map[string]string{"error": message}
	if code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

// handleSession resolves the submitted identity to a view role. This is
// a display toggle for the client, not authentication.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		corsError(w, "Email required", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"email": req.Email,
		"role":  string(s.gate.Resolve(req.Email)),
	})
}

// handleListCustomers returns all customers with their invoices
func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Customers())
}

// handleGetCustomer returns a single customer
func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Customer ID required", http.StatusBadRequest)
		return
	}
	customer, ok := s.store.Customer(id)
	if !ok {
		corsError(w, "Customer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// handleUploadInvoice handles invoice upload and ingestion
func (s *Server) handleUploadInvoice(w http.ResponseWriter, r *http.Request) {
	maxFormSize := int64(50 << 20) // 50MB
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form", "")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.", "")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.", "")
		return
	}

	contentType := header.Header.Get("Content-Type")

	invoice, err := s.service.Ingest(header.Filename, data, contentType)
	if err != nil {
		var dup *DuplicateInvoiceError
		var extr *ExtractionError
		switch {
		case errors.Is(err, ErrInvalidFileType):
			writeError(w, http.StatusBadRequest, "Please select a PDF file.", codeInvalidFileType)
		case errors.As(err, &dup):
			writeError(w, http.StatusConflict, "Duplicate Invoice: "+dup.Error()+".", codeDuplicateInvoice)
		case errors.As(err, &extr):
			writeError(w, http.StatusBadGateway,
				"Failed to analyze invoice. Please check the PDF quality or try again.", codeExtractionFailed)
		default:
			slog.Error("Error ingesting invoice", "filename", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error", "")
		}
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

// handleGetInvoicePDF returns the archived original document
func (s *Server) handleGetInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Invoice ID required", http.StatusBadRequest)
		return
	}
	data, err := s.service.InvoicePDF(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Write(data)
}

// handleStats returns the dashboard summary
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Summarize(s.store.Customers()))
}

// handleBackup returns the serialized customer sequence as a download
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := ExportBackup(s.store.Customers(), time.Now())
	if err != nil {
		if errors.Is(err, ErrNoBackupData) {
			writeError(w, http.StatusConflict, "No data to back up.", "")
			return
		}
		slog.Error("Error creating backup", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while creating the backup file.", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		`attachment; filename="crm-backup-`+time.Now().Format("2006-01-02")+`.json"`)
	w.Write(backup.Data)
}

// handleBackupMailto returns a composed mailto link carrying the backup
func (s *Server) handleBackupMailto(w http.ResponseWriter, r *http.Request) {
	backup, err := ExportBackup(s.store.Customers(), time.Now())
	if err != nil {
		if errors.Is(err, ErrNoBackupData) {
			writeError(w, http.StatusConflict, "No data to back up.", "")
			return
		}
		slog.Error("Error creating backup", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while creating the backup file.", "")
		return
	}

	writeJSON(w, http.StatusOK, backup)
}

// handleClearData removes all customer and invoice records
func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearAllData(); err != nil {
		slog.Error("Error clearing data", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
