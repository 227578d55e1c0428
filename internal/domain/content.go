package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ContentSchemaVersion is the current QuotationContent schema version.
// Bump it when the stored shape changes; Scan keeps accepting older rows.
const ContentSchemaVersion = 1

// LineItem is a single priced row in a quotation.
// Amount is always recomputed from Quantity and UnitPrice before a write.
type LineItem struct {
	SlNo        string  `json:"slNo"`
	Description string  `json:"description"`
	Quantity    float64 `json:"qty"`
	Unit        string  `json:"unit,omitempty"`
	UnitPrice   float64 `json:"unitPrice"`
	Amount      float64 `json:"amount"`
}

// QuotationContent is the typed document body of a quotation version,
// stored as a JSONB column.
type QuotationContent struct {
	SchemaVersion int        `json:"schemaVersion"`
	RefID         string     `json:"refId"`
	Date          string     `json:"date,omitempty"`
	PartyName     string     `json:"partyName"`
	PartyAddress  string     `json:"partyAddress,omitempty"`
	VesselName    string     `json:"vesselName,omitempty"`
	Subject       string     `json:"subject,omitempty"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	TotalInWords  string     `json:"totalInWords"`
	DeliveryTerms string     `json:"deliveryTerms,omitempty"`
	PaymentTerms  string     `json:"paymentTerms,omitempty"`
	ValidityTerms string     `json:"validityTerms,omitempty"`
	Note          string     `json:"note,omitempty"`
	ContactName   string     `json:"contactName,omitempty"`
	ContactMobile string     `json:"contactMobile,omitempty"`
	ContactEmail  string     `json:"contactEmail,omitempty"`
}

// Clone returns a deep copy, so revisions never share item slices
func (c QuotationContent) Clone() QuotationContent {
	out := c
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// Value implements driver.Valuer for JSONB storage
func (c QuotationContent) Value() (driver.Value, error) {
	if c.SchemaVersion == 0 {
		c.SchemaVersion = ContentSchemaVersion
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quotation content: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for JSONB storage
func (c *QuotationContent) Scan(value interface{}) error {
	if value == nil {
		*c = QuotationContent{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported quotation content type %T", value)
	}
	return json.Unmarshal(b, c)
}

// DeliveryNoteContent is the generated body of an unsigned delivery note.
// It carries the deliverable items of the final quotation without prices.
type DeliveryNoteContent struct {
	RefID      string             `json:"refId"`
	PoID       string             `json:"poId,omitempty"`
	Date       string             `json:"date"`
	PartyName  string             `json:"partyName"`
	VesselName string             `json:"vesselName,omitempty"`
	Items      []DeliveryNoteItem `json:"items"`
}

// DeliveryNoteItem is a single deliverable row on a delivery note
type DeliveryNoteItem struct {
	SlNo        string  `json:"slNo"`
	Description string  `json:"description"`
	Quantity    float64 `json:"qty"`
	Unit        string  `json:"unit,omitempty"`
}

// InvoiceContent is the generated body of an invoice document
type InvoiceContent struct {
	InvoiceNumber string     `json:"invoiceNumber"`
	RefID         string     `json:"refId"`
	PoID          string     `json:"poId,omitempty"`
	Date          string     `json:"date"`
	PartyName     string     `json:"partyName"`
	PartyAddress  string     `json:"partyAddress,omitempty"`
	VesselName    string     `json:"vesselName,omitempty"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	TotalInWords  string     `json:"totalInWords"`
}
