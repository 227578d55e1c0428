package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses. Timestamps are ISO 8601 strings.

type ThreadDTO struct {
	ID               uuid.UUID      `json:"id"`
	UserRefID        string         `json:"userRefId"`
	Status           ThreadStatus   `json:"status"`
	PoID             string         `json:"poId,omitempty"`
	FinalQuotationID *uuid.UUID     `json:"finalQuotationId,omitempty"`
	InvoiceNumber    string         `json:"invoiceNumber,omitempty"`
	Quotations       []QuotationDTO `json:"quotations,omitempty"`
	Documents        []DocumentDTO  `json:"documents,omitempty"`
	CreatedAt        string         `json:"createdAt"`
	UpdatedAt        string         `json:"updatedAt"`
}

type QuotationDTO struct {
	ID        uuid.UUID        `json:"id"`
	ThreadID  uuid.UUID        `json:"threadId"`
	Version   string           `json:"version"`
	Status    QuotationStatus  `json:"status"`
	IsFinal   bool             `json:"isFinal"`
	Content   QuotationContent `json:"content"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

type DocumentDTO struct {
	ID          uuid.UUID    `json:"id"`
	ThreadID    uuid.UUID    `json:"threadId"`
	Type        DocumentType `json:"type"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"contentType,omitempty"`
	Size        int64        `json:"size,omitempty"`
	UploadedAt  string       `json:"uploadedAt"`
}

type VesselDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Number       int       `json:"number"`
	Code         string    `json:"code"`
	SerialFormat string    `json:"serialFormat"`
	Aliases      []string  `json:"aliases,omitempty"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

// NextRefIDDTO is the response of the reference number generator endpoint
type NextRefIDDTO struct {
	RefID string `json:"refId"`
}

// PaginatedResponse wraps list results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs

// QuotationContentInput is the writable part of a quotation body. Amounts,
// totals and the in-words rendering are recomputed server-side and ignored
// if supplied.
type QuotationContentInput struct {
	Date          string          `json:"date"`
	PartyName     string          `json:"partyName" validate:"required,max=200"`
	PartyAddress  string          `json:"partyAddress" validate:"max=500"`
	VesselName    string          `json:"vesselName" validate:"max=100"`
	Subject       string          `json:"subject" validate:"max=300"`
	Items         []LineItemInput `json:"items" validate:"required,min=1,dive"`
	DeliveryTerms string          `json:"deliveryTerms" validate:"max=500"`
	PaymentTerms  string          `json:"paymentTerms" validate:"max=500"`
	ValidityTerms string          `json:"validityTerms" validate:"max=500"`
	Note          string          `json:"note" validate:"max=2000"`
	ContactName   string          `json:"contactName" validate:"max=100"`
	ContactMobile string          `json:"contactMobile" validate:"max=30"`
	ContactEmail  string          `json:"contactEmail" validate:"omitempty,email"`
}

type LineItemInput struct {
	Description string  `json:"description" validate:"required,max=500"`
	Quantity    float64 `json:"qty" validate:"gt=0"`
	Unit        string  `json:"unit" validate:"max=20"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
}

type CreateThreadRequest struct {
	UserRefID string                 `json:"userRefId" validate:"omitempty,max=50"`
	Content   *QuotationContentInput `json:"content" validate:"required"`
}

type CreateRevisionRequest struct {
	PreviousQuotationID uuid.UUID              `json:"previousQuotationId" validate:"required"`
	Content             *QuotationContentInput `json:"content"`
}

type UpdateQuotationRequest struct {
	Content *QuotationContentInput `json:"content" validate:"required"`
}

type MarkPurchaseOrderRequest struct {
	PoID string `json:"poId" validate:"required,max=100"`
}

type CreateVesselRequest struct {
	Name         string   `json:"name" validate:"required,max=100"`
	Number       int      `json:"number" validate:"gte=0"`
	SerialFormat string   `json:"serialFormat" validate:"omitempty,max=10"`
	Aliases      []string `json:"aliases" validate:"omitempty,dive,max=100"`
}

type UpdateVesselRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=100"`
	Number       *int      `json:"number" validate:"omitempty,gte=0"`
	SerialFormat *string   `json:"serialFormat" validate:"omitempty,max=10"`
	Aliases      *[]string `json:"aliases" validate:"omitempty,dive,max=100"`
}
