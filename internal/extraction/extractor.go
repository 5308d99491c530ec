package extraction

// LineItem is one invoice row as returned by a provider
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// InvoiceData contains the structured fields extracted from an invoice document
type InvoiceData struct {
	CustomerName  string     `json:"customerName"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Mark          string     `json:"mark"`
	Date          string     `json:"date"` // YYYY-MM-DD
	TotalAmount   float64    `json:"totalAmount"`
	LineItems     []LineItem `json:"lineItems"`
}

// Extractor defines the interface for invoice extraction providers.
// Implementers may assume at most one call per ingestion attempt; the
// caller performs no retries.
type Extractor interface {
	// ExtractInvoice analyzes an invoice document and extracts its fields
	ExtractInvoice(payload []byte, mediaType string) (*InvoiceData, error)
	// Close closes the extractor and releases resources
	Close() error
}

// invoiceScanPrompt is the shared prompt used by all LLM providers
const invoiceScanPrompt = `You are analyzing an invoice document. Carefully read all text and extract the following information:

1. **Customer Name**: The full name of the customer or company the invoice is addressed to.

2. **Invoice Number**: The unique invoice identifier number.

3. **MARK**: The unique MARK identifier from the invoice. It is a fiscal identifier, usually a long number found in the document. The filename might start with 'printinvoice' followed by the MARK number.

4. **Date**: The date the invoice was issued. Convert it to ISO 8601 format (YYYY-MM-DD).

5. **Total Amount**: The final total amount due on the invoice. Extract only the numeric value (e.g., 42.75).

6. **Line Items**: Every item or service on the invoice, with description, quantity, unit price, and line total.

Return ONLY valid JSON in this exact format:
{
  "customerName": "Customer Name",
  "invoiceNumber": "INV-001",
  "mark": "123456789",
  "date": "YYYY-MM-DD",
  "totalAmount": 0.00,
  "lineItems": [
    {"description": "Item", "quantity": 1, "unitPrice": 0.00, "total": 0.00}
  ]
}

Important:
- The date must be in YYYY-MM-DD format
- Amounts must be numbers (not strings)
- If a value is not found, use "N/A" for strings and 0 for numbers
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
