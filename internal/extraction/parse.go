package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseInvoiceJSON parses and validates the JSON response from a provider
func parseInvoiceJSON(text string) (*InvoiceData, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON object boundaries - look for first { and last }
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	text = text[startIdx : endIdx+1]

	var data InvoiceData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data.CustomerName = strings.TrimSpace(data.CustomerName)
	data.InvoiceNumber = strings.TrimSpace(data.InvoiceNumber)
	data.Mark = strings.TrimSpace(data.Mark)

	if data.CustomerName == "" || data.InvoiceNumber == "" || data.Mark == "" {
		return nil, fmt.Errorf("missing key information (customer name, invoice number, or MARK) in response")
	}

	data.Date = normalizeDate(data.Date)

	if data.LineItems == nil {
		data.LineItems = []LineItem{}
	}

	return &data, nil
}

// normalizeDate coerces common date formats to YYYY-MM-DD, falling back
// to today's date when the value cannot be parsed
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now().Format("2006-01-02")
	}

	if d, err := time.Parse("2006-01-02", date); err == nil {
		return d.Format("2006-01-02")
	}

	formats := []string{
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
		"02/01/2006",
	}
	for _, format := range formats {
		if d, err := time.Parse(format, date); err == nil {
			return d.Format("2006-01-02")
		}
	}

	return time.Now().Format("2006-01-02")
}
