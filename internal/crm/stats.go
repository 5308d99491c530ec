package crm

import (
	"sort"
	"strings"
)

const topCount = 5

// CustomerSpend is one row of the top-customers chart
type CustomerSpend struct {
	Name       string  `json:"name"`
	TotalSpent float64 `json:"totalSpent"`
}

// ProductSales aggregates line items sharing a description
type ProductSales struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total"`
}

// Summary holds the dashboard aggregates
type Summary struct {
	TotalTurnover  float64         `json:"totalTurnover"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalInvoices  int             `json:"totalInvoices"`
	TopCustomers   []CustomerSpend `json:"topCustomers"`
	TopProducts    []ProductSales  `json:"topProducts"`
}

// Summarize computes dashboard statistics over a customer snapshot.
// Top customers are ranked by total spend (zero-spend customers are
// omitted); top products by revenue, keyed on the trimmed line-item
// description, skipping blank descriptions.
func Summarize(customers []*Customer) *Summary {
	summary := &Summary{
		TotalCustomers: len(customers),
		TopCustomers:   []CustomerSpend{},
		TopProducts:    []ProductSales{},
	}

	sales := make(map[string]*ProductSales)
	for _, c := range customers {
		spent := 0.0
		for _, inv := range c.Invoices {
			summary.TotalInvoices++
			summary.TotalTurnover += inv.TotalAmount
			spent += inv.TotalAmount

			for _, item := range inv.LineItems {
				key := strings.TrimSpace(item.Description)
				if key == "" {
					continue
				}
				p, ok := sales[key]
				if !ok {
					p = &ProductSales{Description: key}
					sales[key] = p
				}
				p.Quantity += item.Quantity
				p.Total += item.Total
			}
		}
		if spent > 0 {
			summary.TopCustomers = append(summary.TopCustomers, CustomerSpend{
				Name:       c.Name,
				TotalSpent: spent,
			})
		}
	}

	sort.Slice(summary.TopCustomers, func(i, j int) bool {
		return summary.TopCustomers[i].TotalSpent > summary.TopCustomers[j].TotalSpent
	})
	if len(summary.TopCustomers) > topCount {
		summary.TopCustomers = summary.TopCustomers[:topCount]
	}

	for _, p := range sales {
		summary.TopProducts = append(summary.TopProducts, *p)
	}
	sort.Slice(summary.TopProducts, func(i, j int) bool {
		return summary.TopProducts[i].Total > summary.TopProducts[j].Total
	})
	if len(summary.TopProducts) > topCount {
		summary.TopProducts = summary.TopProducts[:topCount]
	}

	return summary
}
