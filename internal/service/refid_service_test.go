package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThread(t *testing.T, env *testEnv, refID string) {
	t.Helper()
	err := env.threadRepo.Create(context.Background(), &domain.Thread{
		UserRefID: refID,
		Status:    domain.ThreadStatusQuotationCreated,
		Quotations: []domain.Quotation{
			{Version: "Quotation", Status: domain.QuotationStatusPending},
		},
	})
	require.NoError(t, err)
}

func TestNextRefIDStartsFromSeed(t *testing.T) {
	env := newTestEnv(t)

	refID, err := env.refIDs.NextRefID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-25001", refID)
}

func TestNextRefIDContinuesFromHighest(t *testing.T) {
	env := newTestEnv(t)
	seedThread(t, env, "HRS-QN-25001")
	seedThread(t, env, "HRS-QN-25003")

	refID, err := env.refIDs.NextRefID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-25004", refID, "gaps are not backfilled")
}

func TestNextRefIDScansArchivedReferences(t *testing.T) {
	env := newTestEnv(t)
	seedThread(t, env, "HRS-QN-25010")
	_, err := env.archivedRepo.UpsertBatch(context.Background(), []domain.ArchivedReference{
		{RefID: "HRS-QN-26500", Source: "legacy_accounts"},
	})
	require.NoError(t, err)

	refID, err := env.refIDs.NextRefID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-26501", refID)
}

func TestNextRefIDIgnoresForeignFormats(t *testing.T) {
	env := newTestEnv(t)
	seedThread(t, env, "CLIENT-REF-9000")
	seedThread(t, env, "hrs-qn-25002-ALS")

	refID, err := env.refIDs.NextRefID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HRS-QN-25003", refID, "prefix match is case-insensitive, suffixes ignored")
}

func TestNewInvoiceNumber(t *testing.T) {
	env := newTestEnv(t)

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^INV-2025-\d{5}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, env.refIDs.NewInvoiceNumber(now))
	}
}
