package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields. Ids are assigned in BeforeCreate rather
// than by a database default so the same models work on postgres and on
// the sqlite test database.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// BeforeCreate assigns an id unless the caller already set one
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ThreadStatus represents where a thread is in the quotation-to-invoice workflow
type ThreadStatus string

const (
	ThreadStatusQuotationCreated  ThreadStatus = "QuotationCreated"
	ThreadStatusQuotationDeclined ThreadStatus = "QuotationDeclined"
	ThreadStatusQuotationAccepted ThreadStatus = "QuotationAccepted"
	// Historical spelling. Stored rows and the SPA both depend on it.
	ThreadStatusPurchaseOrderRecieved ThreadStatus = "PurchaseOrderRecieved"
	ThreadStatusWorkStarted           ThreadStatus = "WorkStarted"
	ThreadStatusDeliveryNoteCreated   ThreadStatus = "DeliveryNoteCreated"
	ThreadStatusSignedDeliveryNote    ThreadStatus = "UploadedSignedDeliveryNote"
	ThreadStatusInvoiceCreated        ThreadStatus = "InvoiceCreated"
	ThreadStatusCompleted             ThreadStatus = "Completed"
)

// IsValid checks if the thread status is valid
func (s ThreadStatus) IsValid() bool {
	switch s {
	case ThreadStatusQuotationCreated, ThreadStatusQuotationDeclined, ThreadStatusQuotationAccepted,
		ThreadStatusPurchaseOrderRecieved, ThreadStatusWorkStarted, ThreadStatusDeliveryNoteCreated,
		ThreadStatusSignedDeliveryNote, ThreadStatusInvoiceCreated, ThreadStatusCompleted:
		return true
	}
	return false
}

// QuotationStatus represents the state of a single quotation version
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusDeclined QuotationStatus = "declined"
)

// IsValid checks if the quotation status is valid
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusPending, QuotationStatusAccepted, QuotationStatusDeclined:
		return true
	}
	return false
}

// DocumentType classifies stored workflow artifacts
type DocumentType string

const (
	DocumentTypePurchaseOrder      DocumentType = "purchase_order"
	DocumentTypeDeliveryNote       DocumentType = "delivery_note_unsigned"
	DocumentTypeSignedDeliveryNote DocumentType = "delivery_note_signed"
	DocumentTypeInvoice            DocumentType = "invoice"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePurchaseOrder, DocumentTypeDeliveryNote, DocumentTypeSignedDeliveryNote, DocumentTypeInvoice:
		return true
	}
	return false
}

// StaffRole represents an internal user role
type StaffRole string

const (
	RoleAdmin  StaffRole = "admin"
	RoleOffice StaffRole = "office"
	RoleViewer StaffRole = "viewer"
)

// Thread is one client engagement tracked from quotation to invoice.
// It owns its quotation versions and document artifacts.
type Thread struct {
	BaseModel
	UserRefID        string       `gorm:"type:varchar(50);uniqueIndex;not null;column:user_ref_id" json:"userRefId"`
	Status           ThreadStatus `gorm:"type:varchar(50);not null;default:'QuotationCreated'" json:"status"`
	PoID             string       `gorm:"type:varchar(100);column:po_id" json:"poId,omitempty"`
	FinalQuotationID *uuid.UUID   `gorm:"type:uuid;column:final_quotation_id" json:"finalQuotationId,omitempty"`
	InvoiceNumber    string       `gorm:"type:varchar(50);column:invoice_number" json:"invoiceNumber,omitempty"`

	Quotations []Quotation `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"quotations,omitempty"`
	Documents  []Document  `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// FinalQuotation returns the quotation marked final, or nil
func (t *Thread) FinalQuotation() *Quotation {
	for i := range t.Quotations {
		if t.Quotations[i].IsFinal {
			return &t.Quotations[i]
		}
	}
	return nil
}

// Quotation is one version of the commercial offer within a thread.
// Version is "Quotation" for the first one, then "QuotationRevised1", ...
type Quotation struct {
	BaseModel
	ThreadID uuid.UUID        `gorm:"type:uuid;not null;index;column:thread_id" json:"threadId"`
	Version  string           `gorm:"type:varchar(50);not null" json:"version"`
	Status   QuotationStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	IsFinal  bool             `gorm:"not null;default:false;column:is_final" json:"isFinal"`
	Content  QuotationContent `gorm:"type:jsonb;not null" json:"content"`
}

// Document is a stored workflow artifact (purchase order, delivery note, invoice)
type Document struct {
	BaseModel
	ThreadID    uuid.UUID    `gorm:"type:uuid;not null;index;column:thread_id" json:"threadId"`
	Type        DocumentType `gorm:"type:varchar(30);not null;index" json:"type"`
	Filename    string       `gorm:"type:varchar(255);not null" json:"filename"`
	Filepath    string       `gorm:"type:varchar(512);not null" json:"-"`
	ContentType string       `gorm:"type:varchar(100);column:content_type" json:"contentType,omitempty"`
	Size        int64        `json:"size,omitempty"`
}

// Vessel is reference data for the vessels quotations are issued against.
// SerialFormat drives line-item serial numbers, e.g. "H##" renders H01, H02.
type Vessel struct {
	BaseModel
	Name         string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Number       int            `gorm:"not null" json:"number"`
	Code         string         `gorm:"type:varchar(10);not null" json:"code"`
	SerialFormat string         `gorm:"type:varchar(10);not null;default:'H##';column:serial_format" json:"serialFormat"`
	Aliases      pq.StringArray `gorm:"type:text[]" json:"aliases,omitempty"`
}

// SerialNo renders the nth line-item serial using the vessel's format
func (v *Vessel) SerialNo(n int) string {
	return FormatSerialNo(v.SerialFormat, n)
}

// DefaultSerialFormat is used when a quotation's vessel is unknown
const DefaultSerialFormat = "H##"

// FormatSerialNo renders a serial number from a format like "H##":
// leading characters are the prefix, each '#' becomes a zero-padded digit.
func FormatSerialNo(format string, n int) string {
	if format == "" {
		format = DefaultSerialFormat
	}
	idx := strings.IndexByte(format, '#')
	if idx < 0 {
		return format
	}
	width := strings.Count(format, "#")
	return fmt.Sprintf("%s%0*d", format[:idx], width, n)
}

// ArchivedReference is a reference number imported from the legacy accounting
// system. The reference number generator scans these alongside live threads so
// newly issued numbers never collide with historical ones.
type ArchivedReference struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	RefID      string     `gorm:"type:varchar(50);uniqueIndex;not null;column:ref_id" json:"refId"`
	Source     string     `gorm:"type:varchar(50);not null" json:"source"`
	IssuedAt   *time.Time `gorm:"column:issued_at" json:"issuedAt,omitempty"`
	ImportedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:imported_at" json:"importedAt"`
}

// BeforeCreate assigns an id and stamps the import time
func (a *ArchivedReference) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ImportedAt.IsZero() {
		a.ImportedAt = time.Now().UTC()
	}
	return nil
}
