package service

import (
	"context"
	"testing"
	"time"

	"github.com/highrangestar/quotation-api/internal/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReferenceSource struct {
	refs []archive.LegacyReference
	err  error
}

func (f *fakeReferenceSource) ListQuotationReferences(ctx context.Context) ([]archive.LegacyReference, error) {
	return f.refs, f.err
}

func TestArchiveSyncImportsReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issued := time.Date(2019, time.March, 4, 0, 0, 0, 0, time.UTC)

	source := &fakeReferenceSource{refs: []archive.LegacyReference{
		{RefID: "HRS-QN-21050", IssuedAt: &issued},
		{RefID: "HRS-QN-21051"},
		{RefID: ""},
	}}
	sync := NewArchiveSyncService(source, env.archivedRepo, zap.NewNop())

	imported, err := sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), imported, "blank references are skipped")

	// Re-running is a no-op thanks to the upsert
	imported, err = sync.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), imported)

	// Imported references feed the generator
	refID, err := env.refIDs.NextRefID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-25001", refID, "legacy numbers below the seed never lower the floor")

	source.refs = []archive.LegacyReference{{RefID: "HRS-QN-27000"}}
	_, err = sync.Sync(ctx)
	require.NoError(t, err)
	refID, err = env.refIDs.NextRefID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-27001", refID)
}

func TestArchiveSyncEmptySource(t *testing.T) {
	env := newTestEnv(t)
	sync := NewArchiveSyncService(&fakeReferenceSource{}, env.archivedRepo, zap.NewNop())

	imported, err := sync.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, imported)
}

func TestArchiveSyncSourceFailure(t *testing.T) {
	env := newTestEnv(t)
	sync := NewArchiveSyncService(&fakeReferenceSource{err: assert.AnError}, env.archivedRepo, zap.NewNop())

	_, err := sync.Sync(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
