package crm

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"
)

var _ = Describe("BoltPersistence", func() {
	var (
		dbPath      string
		persistence *BoltPersistence
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "test.db")
		var err error
		persistence, err = NewBoltPersistence(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if persistence != nil {
			persistence.Close()
		}
	})

	Describe("Load", func() {
		When("nothing has been saved", func() {
			It("returns no customers and no error", func() {
				customers, err := persistence.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(customers).To(BeNil())
			})
		})

		When("a document has been saved", func() {
			BeforeEach(func() {
				err := persistence.Save([]*Customer{
					{ID: "c1", Name: "Acme Ltd", Invoices: []Invoice{
						{ID: "i1", InvoiceNumber: "INV-001", Mark: "123", Date: "2024-05-01", TotalAmount: 50},
					}},
					{ID: "c2", Name: "Beta GmbH", Invoices: []Invoice{}},
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("round-trips the customer sequence", func() {
				customers, err := persistence.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(customers).To(HaveLen(2))
				Expect(customers[0].Name).To(Equal("Acme Ltd"))
				Expect(customers[0].Invoices[0].Mark).To(Equal("123"))
				Expect(customers[1].Invoices).To(BeEmpty())
			})

			It("survives reopening the database file", func() {
				Expect(persistence.Close()).To(Succeed())
				var err error
				persistence, err = NewBoltPersistence(dbPath)
				Expect(err).NotTo(HaveOccurred())

				customers, err := persistence.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(customers).To(HaveLen(2))
			})
		})

		When("the document does not match the expected shape", func() {
			BeforeEach(func() {
				err := persistence.db.Update(func(tx *bbolt.Tx) error {
					return tx.Bucket([]byte(bucketName)).Put([]byte(customersKey), []byte(`{"not":"a list"}`))
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns an error instead of crashing", func() {
				_, err := persistence.Load()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("unmarshaling customers"))
			})
		})
	})

	Describe("Save", func() {
		It("fully rewrites the document on every call", func() {
			Expect(persistence.Save([]*Customer{{ID: "c1", Name: "Acme"}})).To(Succeed())
			Expect(persistence.Save([]*Customer{{ID: "c2", Name: "Beta"}})).To(Succeed())

			customers, err := persistence.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(customers).To(HaveLen(1))
			Expect(customers[0].Name).To(Equal("Beta"))
		})
	})
})
