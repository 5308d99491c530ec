package crm

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/theolivist/olivecrm/internal/extraction"
)

// mockExtractor is a mock implementation of extraction.Extractor
type mockExtractor struct {
	data       *extraction.InvoiceData
	extractErr error
	called     int
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		data: &extraction.InvoiceData{
			CustomerName:  "Acme Ltd",
			InvoiceNumber: "INV-001",
			Mark:          "123456",
			Date:          "2024-05-01",
			TotalAmount:   50,
			LineItems: []extraction.LineItem{
				{Description: "Olive oil 5L", Quantity: 2, UnitPrice: 25, Total: 50},
			},
		},
	}
}

func (m *mockExtractor) ExtractInvoice(payload []byte, mediaType string) (*extraction.InvoiceData, error) {
	m.called++
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.data, nil
}

func (m *mockExtractor) Close() error {
	return nil
}

// mockArchive is a mock implementation of Archive
type mockArchive struct {
	files   map[string][]byte
	saveErr error
	getErr  error
}

func newMockArchive() *mockArchive {
	return &mockArchive{files: make(map[string][]byte)}
}

func (m *mockArchive) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.files[filename] = data
	return filename, nil
}

func (m *mockArchive) Get(filename string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.files[filename]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

func (m *mockArchive) Delete(filename string) error {
	delete(m.files, filename)
	return nil
}

var _ = Describe("Service", func() {
	var (
		store     *Store
		extractor *mockExtractor
		archive   *mockArchive
		service   *Service
	)

	BeforeEach(func() {
		store = NewStoreWithDeps(&mockPersistence{}, &seqIDGenerator{})
		store.Load()
		extractor = newMockExtractor()
		archive = newMockArchive()
		service = NewService(store, extractor, archive)
	})

	Describe("Ingest", func() {
		var (
			filename    string
			data        []byte
			contentType string
			invoice     *Invoice
			err         error
		)

		BeforeEach(func() {
			filename = "printinvoice123456.pdf"
			data = []byte("%PDF-1.4 fake pdf content")
			contentType = "application/pdf"
		})

		JustBeforeEach(func() {
			invoice, err = service.Ingest(filename, data, contentType)
		})

		When("ingestion succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should map the extracted fields onto the invoice", func() {
				Expect(invoice.InvoiceNumber).To(Equal("INV-001"))
				Expect(invoice.Mark).To(Equal("123456"))
				Expect(invoice.Date).To(Equal("2024-05-01"))
				Expect(invoice.TotalAmount).To(Equal(50.0))
				Expect(invoice.LineItems).To(HaveLen(1))
				Expect(invoice.LineItems[0].Description).To(Equal("Olive oil 5L"))
			})

			It("should embed the document as a data URL", func() {
				Expect(invoice.PDFSource).To(HavePrefix("data:application/pdf;base64,"))
			})

			It("should commit the invoice under the extracted customer", func() {
				customers := store.Customers()
				Expect(customers).To(HaveLen(1))
				Expect(customers[0].Name).To(Equal("Acme Ltd"))
				Expect(customers[0].Invoices).To(HaveLen(1))
			})

			It("should archive the original PDF under the invoice ID", func() {
				Expect(archive.files).To(HaveKey(invoice.ID + ".pdf"))
				Expect(archive.files[invoice.ID+".pdf"]).To(Equal(data))
			})
		})

		When("the upload is not a PDF", func() {
			BeforeEach(func() {
				filename = "photo.jpg"
				contentType = "image/jpeg"
			})

			It("fails with ErrInvalidFileType", func() {
				Expect(err).To(MatchError(ErrInvalidFileType))
			})

			It("never calls the extraction provider", func() {
				Expect(extractor.called).To(BeZero())
			})

			It("commits nothing", func() {
				Expect(store.Customers()).To(BeEmpty())
				Expect(archive.files).To(BeEmpty())
			})
		})

		When("extraction fails", func() {
			var setupErr error

			BeforeEach(func() {
				setupErr = errors.New("network timeout")
				extractor.extractErr = setupErr
			})

			It("returns an ExtractionError wrapping the cause", func() {
				var extr *ExtractionError
				Expect(errors.As(err, &extr)).To(BeTrue())
				Expect(errors.Is(err, setupErr)).To(BeTrue())
			})

			It("commits nothing", func() {
				Expect(store.Customers()).To(BeEmpty())
				Expect(archive.files).To(BeEmpty())
			})
		})

		When("the mark already exists in the store", func() {
			BeforeEach(func() {
				_, addErr := store.AddInvoice("Someone Else", Invoice{Mark: "123456"})
				Expect(addErr).NotTo(HaveOccurred())
			})

			It("propagates DuplicateInvoiceError distinctly", func() {
				var dup *DuplicateInvoiceError
				Expect(errors.As(err, &dup)).To(BeTrue())
				var extr *ExtractionError
				Expect(errors.As(err, &extr)).To(BeFalse())
			})

			It("does not archive the document", func() {
				Expect(archive.files).To(BeEmpty())
			})
		})

		When("archiving fails", func() {
			BeforeEach(func() {
				archive.saveErr = errors.New("disk full")
			})

			It("still succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("keeps the committed record", func() {
				Expect(store.Customers()).To(HaveLen(1))
			})
		})
	})

	Describe("InvoicePDF", func() {
		When("the invoice exists", func() {
			var invoiceID string

			BeforeEach(func() {
				invoice, err := service.Ingest("invoice.pdf", []byte("%PDF data"), "application/pdf")
				Expect(err).NotTo(HaveOccurred())
				invoiceID = invoice.ID
			})

			It("returns the archived document", func() {
				data, err := service.InvoicePDF(invoiceID)
				Expect(err).NotTo(HaveOccurred())
				Expect(strings.HasPrefix(string(data), "%PDF")).To(BeTrue())
			})
		})

		When("the invoice does not exist", func() {
			It("returns an error", func() {
				_, err := service.InvoicePDF("nope")
				Expect(err).To(HaveOccurred())
			})
		})
	})
})
