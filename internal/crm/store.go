package crm

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator generates unique IDs for customers and invoices
type IDGenerator interface {
	Generate() string
}

// uuidGenerator is the default IDGenerator
type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

// Store is the single source of truth for customer and invoice records.
// It keeps the ordered customer sequence in memory alongside a
// normalized-name index, and rewrites the persisted document after every
// successful mutation. All operations hold the mutex, so the duplicate
// check and the mutation it guards are a single atomic unit.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	idGenerator IDGenerator

	customers []*Customer
	byName    map[string]*Customer
	loaded    bool
}

// NewStore creates a new Store with the default ID generator. Load must
// complete before any mutation is accepted.
func NewStore(persistence Persistence) *Store {
	return NewStoreWithDeps(persistence, &uuidGenerator{})
}

// NewStoreWithDeps creates a new Store with a custom ID generator for testing
func NewStoreWithDeps(persistence Persistence, idGen IDGenerator) *Store {
	return &Store{
		persistence: persistence,
		idGenerator: idGen,
		byName:      make(map[string]*Customer),
	}
}

// normalizeName is the case-insensitive customer identity key
func normalizeName(name string) string {
	return strings.ToLower(name)
}

// exemptMark reports whether a mark is excluded from uniqueness checking.
// Empty and whitespace-only marks are treated alike; "N/A" is the
// placeholder the extraction prompt uses for missing values.
func exemptMark(mark string) bool {
	return strings.TrimSpace(mark) == "" || mark == "N/A"
}

// Load reads the persisted customer sequence into memory. Corrupt or
// missing data falls back to an empty sequence; the store never fails to
// come up because of a bad document. Persistence writes are gated until
// Load has run so an empty initial state cannot clobber existing data.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	customers, err := s.persistence.Load()
	if err != nil {
		slog.Error("Failed to load persisted data, starting empty", "error", err)
	} else {
		for _, c := range customers {
			s.customers = append(s.customers, c)
			s.byName[normalizeName(c.Name)] = c
		}
	}
	s.loaded = true
}

// persist rewrites the durable document. Failures are logged and
// swallowed: the in-memory mutation that triggered the write has already
// succeeded and must not be rolled back or surfaced to the caller.
func (s *Store) persist() {
	if !s.loaded {
		return
	}
	if err := s.persistence.Save(s.customers); err != nil {
		slog.Error("Failed to persist customer data", "error", err)
	}
}

// AddCustomer returns the existing customer with a case-insensitive name
// match, or creates, persists, and returns a new one.
func (s *Store) AddCustomer(name string) (*Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}

	if existing, ok := s.byName[normalizeName(name)]; ok {
		return existing.clone(), nil
	}

	customer := &Customer{
		ID:       s.idGenerator.Generate(),
		Name:     name,
		Invoices: []Invoice{},
	}
	s.customers = append(s.customers, customer)
	s.byName[normalizeName(name)] = customer
	s.persist()

	return customer.clone(), nil
}

// AddInvoice commits an invoice under the named customer, creating the
// customer when it does not exist. The invoice's ID is assigned here.
// If another invoice anywhere in the store carries the same non-exempt
// MARK, the call fails with DuplicateInvoiceError and changes nothing.
func (s *Store) AddInvoice(customerName string, invoice Invoice) (*Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return nil, ErrStoreNotLoaded
	}

	if !exemptMark(invoice.Mark) {
		for _, c := range s.customers {
			for _, inv := range c.Invoices {
				if inv.Mark == invoice.Mark {
					return nil, &DuplicateInvoiceError{Mark: invoice.Mark}
				}
			}
		}
	}

	invoice.ID = s.idGenerator.Generate()
	invoice.LineItems = append([]LineItem(nil), invoice.LineItems...)

	customer, ok := s.byName[normalizeName(customerName)]
	if !ok {
		customer = &Customer{
			ID:   s.idGenerator.Generate(),
			Name: customerName,
		}
		s.customers = append(s.customers, customer)
		s.byName[normalizeName(customerName)] = customer
	}
	customer.Invoices = append(customer.Invoices, invoice)
	s.persist()

	committed := invoice
	committed.LineItems = append([]LineItem(nil), invoice.LineItems...)
	return &committed, nil
}

// ClearAllData removes every customer and invoice and persists the empty state
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrStoreNotLoaded
	}

	s.customers = []*Customer{}
	s.byName = make(map[string]*Customer)
	s.persist()
	return nil
}

// Customers returns a snapshot of all customers in insertion order
func (s *Store) Customers() []*Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c.clone())
	}
	return out
}

// Customer returns a snapshot of one customer by ID
func (s *Store) Customer(id string) (*Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return nil, false
}

// InvoicePDFName returns the archive filename for an invoice ID, and
// whether that invoice exists in the store.
func (s *Store) InvoicePDFName(invoiceID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		for _, inv := range c.Invoices {
			if inv.ID == invoiceID {
				return pdfFilename(invoiceID), true
			}
		}
	}
	return "", false
}
