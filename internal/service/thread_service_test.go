package service

import (
	"context"
	"strings"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfUpload(name string) *UploadedFile {
	return &UploadedFile{
		Filename:    name,
		ContentType: "application/pdf",
		Data:        strings.NewReader("%PDF-1.4 test"),
	}
}

func TestCreateThreadGeneratesRefID(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	assert.Equal(t, "HRS-QN-25001", thread.UserRefID)
	assert.Equal(t, domain.ThreadStatusQuotationCreated, thread.Status)
	require.Len(t, thread.Quotations, 1)

	quotation := thread.Quotations[0]
	assert.Equal(t, "Quotation", quotation.Version)
	assert.Equal(t, domain.QuotationStatusPending, quotation.Status)
	assert.Equal(t, "HRS-QN-25001", quotation.Content.RefID)

	require.Len(t, quotation.Content.Items, 2)
	assert.Equal(t, "H01", quotation.Content.Items[0].SlNo)
	assert.Equal(t, "H02", quotation.Content.Items[1].SlNo)
	assert.Equal(t, 200.0, quotation.Content.Items[0].Amount)
	assert.Equal(t, 550.50, quotation.Content.Total)
	assert.Equal(t, "FIVE HUNDRED FIFTY ONE QATAR RIYALS ONLY.", quotation.Content.TotalInWords)
}

func TestCreateThreadWithExplicitRefID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	thread, err := env.threads.Create(ctx, &domain.CreateThreadRequest{
		UserRefID: "  HRS-QN-30000  ",
		Content:   testContentInput(),
	})
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-30000", thread.UserRefID)

	_, err = env.threads.Create(ctx, &domain.CreateThreadRequest{
		UserRefID: "HRS-QN-30000",
		Content:   testContentInput(),
	})
	assert.ErrorIs(t, err, ErrRefIDInUse)
}

func TestDeclineAndUndoRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	revision, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: base.ID})
	require.NoError(t, err)
	_, err = env.quotations.SetFinal(ctx, thread.ID, revision.ID)
	require.NoError(t, err)

	declined, err := env.threads.Decline(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationDeclined, declined.Status)
	assert.Nil(t, declined.FinalQuotationID)
	for _, q := range declined.Quotations {
		assert.Equal(t, domain.QuotationStatusDeclined, q.Status)
		assert.False(t, q.IsFinal)
	}

	restored, err := env.threads.UndoDecline(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationCreated, restored.Status)
	for _, q := range restored.Quotations {
		assert.Equal(t, domain.QuotationStatusPending, q.Status)
	}
}

func TestUndoDeclineRequiresDeclinedThread(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.UndoDecline(context.Background(), thread.ID)
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "thread_not_declined", pe.Guard)
}

func TestAttachPurchaseOrderRequiresFinalQuotation(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.AttachPurchaseOrder(context.Background(), thread.ID, "PO-1001", pdfUpload("po.pdf"))
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "final_quotation_required", pe.Guard)
}

func TestAttachPurchaseOrderRejectsNonPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	_, err := env.quotations.SetFinal(ctx, thread.ID, thread.Quotations[0].ID)
	require.NoError(t, err)

	_, err = env.threads.AttachPurchaseOrder(ctx, thread.ID, "PO-1001", &UploadedFile{
		Filename:    "po.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        strings.NewReader("not a pdf"),
	})
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestStartWorkRequiresPurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.StartWork(context.Background(), thread.ID)
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "purchase_order_required", pe.Guard)
}

func TestUploadSignedDeliveryNoteRequiresNote(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.UploadSignedDeliveryNote(context.Background(), thread.ID, pdfUpload("signed.pdf"))
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "delivery_note_required", pe.Guard)
}

func TestCompleteRequiresInvoice(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.Complete(context.Background(), thread.ID)
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "invoice_required", pe.Guard)
}

func TestFullWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	updated, err := env.quotations.SetFinal(ctx, thread.ID, thread.Quotations[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationAccepted, updated.Status)

	updated, err = env.threads.AttachPurchaseOrder(ctx, thread.ID, "PO-7788", pdfUpload("po.pdf"))
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusPurchaseOrderRecieved, updated.Status)
	assert.Equal(t, "PO-7788", updated.PoID)

	updated, err = env.threads.StartWork(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusWorkStarted, updated.Status)

	updated, err = env.threads.CreateDeliveryNote(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusDeliveryNoteCreated, updated.Status)

	updated, err = env.threads.UploadSignedDeliveryNote(ctx, thread.ID, pdfUpload("signed.pdf"))
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusSignedDeliveryNote, updated.Status)

	updated, err = env.threads.GenerateInvoice(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusInvoiceCreated, updated.Status)
	assert.Regexp(t, `^INV-\d{4}-\d{5}$`, updated.InvoiceNumber)

	updated, err = env.threads.Complete(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusCompleted, updated.Status)

	// One document per workflow artifact
	docs, err := env.documents.ListByThread(ctx, thread.ID, nil)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	types := map[domain.DocumentType]bool{}
	for _, d := range docs {
		types[d.Type] = true
	}
	assert.True(t, types[domain.DocumentTypePurchaseOrder])
	assert.True(t, types[domain.DocumentTypeDeliveryNote])
	assert.True(t, types[domain.DocumentTypeSignedDeliveryNote])
	assert.True(t, types[domain.DocumentTypeInvoice])
}

func TestDeclinedThreadBlocksPurchaseOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	_, err := env.quotations.SetFinal(ctx, thread.ID, thread.Quotations[0].ID)
	require.NoError(t, err)
	_, err = env.threads.Decline(ctx, thread.ID)
	require.NoError(t, err)

	// Decline clears the final marker, so the PO guard trips
	_, err = env.threads.AttachPurchaseOrder(ctx, thread.ID, "PO-1", pdfUpload("po.pdf"))
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "final_quotation_required", pe.Guard)
}

func TestThreadNotFound(t *testing.T) {
	env := newTestEnv(t)
	thread := createTestThread(t, env)

	_, err := env.threads.GetByID(context.Background(), thread.Quotations[0].ID)
	assert.ErrorIs(t, err, ErrThreadNotFound)
}
