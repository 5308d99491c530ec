package crm

// LineItem is a single row from an invoice. Totals are taken from the
// document as extracted; they are not re-checked against quantity and
// unit price.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice represents one ingested invoice document
type Invoice struct {
	ID            string     `json:"id"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Mark          string     `json:"mark"` // fiscal identifier, de-duplication key
	Date          string     `json:"date"` // YYYY-MM-DD
	TotalAmount   float64    `json:"totalAmount"`
	LineItems     []LineItem `json:"lineItems"`
	PDFSource     string     `json:"pdfSource"` // data URL of the original document
}

// Customer holds a customer and all of its invoices. Customers are
// identified by case-insensitive name; the store guarantees at most one
// record per name.
type Customer struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Invoices []Invoice `json:"invoices"`
}

// clone returns a deep copy so store snapshots never alias internal state.
func (c *Customer) clone() *Customer {
	out := &Customer{
		ID:       c.ID,
		Name:     c.Name,
		Invoices: make([]Invoice, len(c.Invoices)),
	}
	for i, inv := range c.Invoices {
		out.Invoices[i] = inv
		out.Invoices[i].LineItems = append([]LineItem(nil), inv.LineItems...)
	}
	return out
}
