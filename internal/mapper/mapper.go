package mapper

import (
	"github.com/highrangestar/quotation-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// ToThreadDTO converts Thread to ThreadDTO, including preloaded quotations
// and documents
func ToThreadDTO(thread *domain.Thread) domain.ThreadDTO {
	dto := domain.ThreadDTO{
		ID:               thread.ID,
		UserRefID:        thread.UserRefID,
		Status:           thread.Status,
		PoID:             thread.PoID,
		FinalQuotationID: thread.FinalQuotationID,
		InvoiceNumber:    thread.InvoiceNumber,
		CreatedAt:        thread.CreatedAt.Format(timeFormat),
		UpdatedAt:        thread.UpdatedAt.Format(timeFormat),
	}
	for i := range thread.Quotations {
		dto.Quotations = append(dto.Quotations, ToQuotationDTO(&thread.Quotations[i]))
	}
	for i := range thread.Documents {
		dto.Documents = append(dto.Documents, ToDocumentDTO(&thread.Documents[i]))
	}
	return dto
}

// ToQuotationDTO converts Quotation to QuotationDTO
func ToQuotationDTO(quotation *domain.Quotation) domain.QuotationDTO {
	return domain.QuotationDTO{
		ID:        quotation.ID,
		ThreadID:  quotation.ThreadID,
		Version:   quotation.Version,
		Status:    quotation.Status,
		IsFinal:   quotation.IsFinal,
		Content:   quotation.Content,
		CreatedAt: quotation.CreatedAt.Format(timeFormat),
		UpdatedAt: quotation.UpdatedAt.Format(timeFormat),
	}
}

// ToQuotationDTOs converts a quotation slice preserving its order
func ToQuotationDTOs(quotations []domain.Quotation) []domain.QuotationDTO {
	dtos := make([]domain.QuotationDTO, 0, len(quotations))
	for i := range quotations {
		dtos = append(dtos, ToQuotationDTO(&quotations[i]))
	}
	return dtos
}

// ToDocumentDTO converts Document to DocumentDTO. The storage path stays internal.
func ToDocumentDTO(document *domain.Document) domain.DocumentDTO {
	return domain.DocumentDTO{
		ID:          document.ID,
		ThreadID:    document.ThreadID,
		Type:        document.Type,
		Filename:    document.Filename,
		ContentType: document.ContentType,
		Size:        document.Size,
		UploadedAt:  document.CreatedAt.Format(timeFormat),
	}
}

// ToDocumentDTOs converts a document slice preserving its order
func ToDocumentDTOs(documents []domain.Document) []domain.DocumentDTO {
	dtos := make([]domain.DocumentDTO, 0, len(documents))
	for i := range documents {
		dtos = append(dtos, ToDocumentDTO(&documents[i]))
	}
	return dtos
}

// ToVesselDTO converts Vessel to VesselDTO
func ToVesselDTO(vessel *domain.Vessel) domain.VesselDTO {
	return domain.VesselDTO{
		ID:           vessel.ID,
		Name:         vessel.Name,
		Number:       vessel.Number,
		Code:         vessel.Code,
		SerialFormat: vessel.SerialFormat,
		Aliases:      vessel.Aliases,
		CreatedAt:    vessel.CreatedAt.Format(timeFormat),
		UpdatedAt:    vessel.UpdatedAt.Format(timeFormat),
	}
}

// ContentFromInput builds quotation content from a write request. Amounts,
// totals and serials are recomputed by the caller before persisting.
func ContentFromInput(input *domain.QuotationContentInput) domain.QuotationContent {
	content := domain.QuotationContent{
		SchemaVersion: domain.ContentSchemaVersion,
		Date:          input.Date,
		PartyName:     input.PartyName,
		PartyAddress:  input.PartyAddress,
		VesselName:    input.VesselName,
		Subject:       input.Subject,
		DeliveryTerms: input.DeliveryTerms,
		PaymentTerms:  input.PaymentTerms,
		ValidityTerms: input.ValidityTerms,
		Note:          input.Note,
		ContactName:   input.ContactName,
		ContactMobile: input.ContactMobile,
		ContactEmail:  input.ContactEmail,
	}
	for _, item := range input.Items {
		content.Items = append(content.Items, domain.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
		})
	}
	return content
}
