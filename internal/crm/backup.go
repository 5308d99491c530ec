package crm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Backup is a point-in-time export of the full customer sequence,
// packaged for the user to store outside the system.
type Backup struct {
	Data      []byte `json:"-"`
	Subject   string `json:"subject"`
	MailtoURL string `json:"mailtoUrl"`
}

// ExportBackup serializes the customer sequence and composes a mailto
// link carrying it, so the caller can hand the document to a mail
// composer. Returns ErrNoBackupData when there is nothing to export.
func ExportBackup(customers []*Customer, now time.Time) (*Backup, error) {
	if len(customers) == 0 {
		return nil, ErrNoBackupData
	}

	data, err := json.MarshalIndent(customers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing backup: %w", err)
	}

	subject := "CRM Backup " + now.Format("2006-01-02")
	body := "Please find your CRM data backup below.\n\n" +
		"Save this email or copy the content to a safe place.\n\n" +
		"--- BACKUP DATA ---\n\n" + string(data)

	return &Backup{
		Data:      data,
		Subject:   subject,
		MailtoURL: "mailto:?subject=" + escapeMailto(subject) + "&body=" + escapeMailto(body),
	}, nil
}

// escapeMailto percent-encodes a mailto header value. QueryEscape alone
// would encode spaces as "+", which mail clients do not decode.
func escapeMailto(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
