package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threadWithPurchaseOrder drives a thread far enough to own a PO document
func threadWithPurchaseOrder(t *testing.T, env *testEnv) *domain.ThreadDTO {
	t.Helper()
	ctx := context.Background()
	thread := createTestThread(t, env)
	_, err := env.quotations.SetFinal(ctx, thread.ID, thread.Quotations[0].ID)
	require.NoError(t, err)
	updated, err := env.threads.AttachPurchaseOrder(ctx, thread.ID, "PO-1", &UploadedFile{
		Filename:    "po.pdf",
		ContentType: "application/pdf",
		Data:        strings.NewReader("%PDF-1.4 original"),
	})
	require.NoError(t, err)
	return updated
}

func TestDownloadDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := threadWithPurchaseOrder(t, env)
	require.Len(t, thread.Documents, 1)

	reader, doc, err := env.documents.Download(ctx, thread.ID, thread.Documents[0].ID)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "po.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 original", string(data))
}

func TestListDocumentsByType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := threadWithPurchaseOrder(t, env)

	poType := domain.DocumentTypePurchaseOrder
	docs, err := env.documents.ListByThread(ctx, thread.ID, &poType)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	invType := domain.DocumentTypeInvoice
	docs, err = env.documents.ListByThread(ctx, thread.ID, &invType)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestReplaceDocument(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := threadWithPurchaseOrder(t, env)
	docID := thread.Documents[0].ID

	replaced, err := env.documents.Replace(ctx, thread.ID, docID, &UploadedFile{
		Filename:    "po-corrected.pdf",
		ContentType: "application/pdf",
		Data:        strings.NewReader("%PDF-1.4 corrected"),
	})
	require.NoError(t, err)
	assert.Equal(t, docID, replaced.ID)
	assert.Equal(t, "po-corrected.pdf", replaced.Filename)

	reader, _, err := env.documents.Download(ctx, thread.ID, docID)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 corrected", string(data))
}

func TestDocumentNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	_, _, err := env.documents.Download(ctx, thread.ID, thread.Quotations[0].ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
