package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	storagePath := DocumentPath("thread-1", "purchase_order", "po.pdf")
	size, err := store.Upload(ctx, storagePath, "application/pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	reader, err := store.Download(ctx, storagePath)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, storagePath))
	_, err = store.Download(ctx, storagePath)
	assert.Error(t, err)

	// Deleting a missing blob is not an error
	assert.NoError(t, store.Delete(ctx, storagePath))
}

func TestDocumentPathLayout(t *testing.T) {
	p := DocumentPath("abc", "invoice", "invoice-INV-2025-12345.json")
	assert.True(t, strings.HasPrefix(p, "threads/abc/invoice/"))
	assert.True(t, strings.HasSuffix(p, ".json"))

	// Unique per call even for identical inputs
	assert.NotEqual(t, p, DocumentPath("abc", "invoice", "invoice-INV-2025-12345.json"))

	// Extension-less uploads get no extension
	bare := DocumentPath("abc", "purchase_order", "scan")
	assert.False(t, strings.Contains(bare[strings.LastIndex(bare, "/"):], "."))
}
