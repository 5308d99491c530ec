package crm

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExportBackup", func() {
	var now time.Time

	BeforeEach(func() {
		now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	})

	When("there is nothing to export", func() {
		It("short-circuits with ErrNoBackupData", func() {
			_, err := ExportBackup(nil, now)
			Expect(err).To(MatchError(ErrNoBackupData))
		})
	})

	When("customers exist", func() {
		var customers []*Customer

		BeforeEach(func() {
			customers = []*Customer{
				{ID: "c1", Name: "Acme Ltd", Invoices: []Invoice{
					{ID: "i1", Mark: "123", TotalAmount: 50},
				}},
			}
		})

		It("serializes the full customer sequence", func() {
			backup, err := ExportBackup(customers, now)
			Expect(err).NotTo(HaveOccurred())

			var restored []*Customer
			Expect(json.Unmarshal(backup.Data, &restored)).To(Succeed())
			Expect(restored).To(HaveLen(1))
			Expect(restored[0].Invoices[0].Mark).To(Equal("123"))
		})

		It("dates the subject", func() {
			backup, err := ExportBackup(customers, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(backup.Subject).To(Equal("CRM Backup 2024-05-01"))
		})

		It("composes a mailto link carrying the data", func() {
			backup, err := ExportBackup(customers, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(backup.MailtoURL).To(HavePrefix("mailto:?subject="))
			Expect(backup.MailtoURL).To(ContainSubstring("BACKUP%20DATA"))
			Expect(backup.MailtoURL).NotTo(ContainSubstring("+"))
		})
	})
})

var _ = Describe("Gate", func() {
	var gate *Gate

	BeforeEach(func() {
		gate = NewGate("owner@example.com")
	})

	It("resolves the owner identity to RoleOwner", func() {
		Expect(gate.Resolve("owner@example.com")).To(Equal(RoleOwner))
	})

	It("is case-insensitive and trims whitespace", func() {
		Expect(gate.Resolve("  Owner@Example.COM ")).To(Equal(RoleOwner))
	})

	It("restricts everyone else", func() {
		Expect(gate.Resolve("partner@example.com")).To(Equal(RoleRestricted))
	})

	When("no owner is configured", func() {
		BeforeEach(func() {
			gate = NewGate("")
		})

		It("restricts every identity", func() {
			Expect(gate.Resolve("anyone@example.com")).To(Equal(RoleRestricted))
			Expect(gate.Resolve("")).To(Equal(RoleRestricted))
		})
	})
})
