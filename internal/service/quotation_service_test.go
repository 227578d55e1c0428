package service

import (
	"context"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRevisionLabels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	require.Len(t, thread.Quotations, 1)
	assert.Equal(t, "Quotation", thread.Quotations[0].Version)

	first, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{
		PreviousQuotationID: thread.Quotations[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "QuotationRevised1", first.Version)
	assert.Equal(t, domain.QuotationStatusPending, first.Status)
	assert.False(t, first.IsFinal)

	second, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{
		PreviousQuotationID: first.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "QuotationRevised2", second.Version)
}

func TestRevisionLabelsNeverReused(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	first, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: base.ID})
	require.NoError(t, err)
	second, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, "QuotationRevised2", second.Version)

	_, err = env.quotations.Delete(ctx, thread.ID, second.ID)
	require.NoError(t, err)

	third, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, "QuotationRevised3", third.Version, "deleted labels stay burned")
}

func TestCreateRevisionCopiesContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	revision, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{
		PreviousQuotationID: base.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, base.Content.RefID, revision.Content.RefID)
	assert.Equal(t, base.Content.PartyName, revision.Content.PartyName)
	require.Len(t, revision.Content.Items, 2)
	assert.Equal(t, 550.50, revision.Content.Total)
}

func TestCreateRevisionWithOverrideKeepsRefID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	override := testContentInput()
	override.Items = []domain.LineItemInput{
		{Description: "Revised scope", Quantity: 1, UnitPrice: 1000},
	}
	revision, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{
		PreviousQuotationID: base.ID,
		Content:             override,
	})
	require.NoError(t, err)

	assert.Equal(t, base.Content.RefID, revision.Content.RefID, "reference number survives overrides")
	assert.Equal(t, 1000.0, revision.Content.Total)
	assert.Equal(t, "ONE THOUSAND QATAR RIYALS ONLY.", revision.Content.TotalInWords)
}

func TestSetFinalIsMutuallyExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	revision, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: base.ID})
	require.NoError(t, err)

	updated, err := env.quotations.SetFinal(ctx, thread.ID, base.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationAccepted, updated.Status)
	require.NotNil(t, updated.FinalQuotationID)
	assert.Equal(t, base.ID, *updated.FinalQuotationID)

	updated, err = env.quotations.SetFinal(ctx, thread.ID, revision.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.FinalQuotationID)
	assert.Equal(t, revision.ID, *updated.FinalQuotationID)

	finalCount := 0
	for _, q := range updated.Quotations {
		if q.IsFinal {
			finalCount++
			assert.Equal(t, revision.ID, q.ID)
		}
	}
	assert.Equal(t, 1, finalCount)
}

func TestSetFinalOverridesDecline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	declined, err := env.threads.Decline(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationDeclined, declined.Status)
	assert.Equal(t, domain.QuotationStatusDeclined, declined.Quotations[0].Status)

	updated, err := env.quotations.SetFinal(ctx, thread.ID, base.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ThreadStatusQuotationAccepted, updated.Status)
	assert.Equal(t, domain.QuotationStatusPending, updated.Quotations[0].Status)
	assert.True(t, updated.Quotations[0].IsFinal)
}

func TestDeleteLastQuotationRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	_, err := env.quotations.Delete(ctx, thread.ID, thread.Quotations[0].ID)
	require.Error(t, err)
	pe, ok := AsPrecondition(err)
	require.True(t, ok)
	assert.Equal(t, "last_quotation", pe.Guard)
}

func TestDeleteFinalQuotationRevertsThread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	revision, err := env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{PreviousQuotationID: base.ID})
	require.NoError(t, err)

	_, err = env.quotations.SetFinal(ctx, thread.ID, revision.ID)
	require.NoError(t, err)

	remaining, err := env.quotations.Delete(ctx, thread.ID, revision.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, base.ID, remaining[0].ID)

	reloaded, err := env.threads.GetByID(ctx, thread.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.FinalQuotationID)
	assert.Equal(t, domain.ThreadStatusQuotationCreated, reloaded.Status)
}

func TestUpdateContentRecomputesDerivedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	input := testContentInput()
	input.Items = []domain.LineItemInput{
		{Description: "Deck crane service", Quantity: 3, Unit: "days", UnitPrice: 400},
	}
	updated, err := env.quotations.UpdateContent(ctx, thread.ID, base.ID, input)
	require.NoError(t, err)

	assert.Equal(t, base.Content.RefID, updated.Content.RefID)
	require.Len(t, updated.Content.Items, 1)
	assert.Equal(t, "H01", updated.Content.Items[0].SlNo)
	assert.Equal(t, 1200.0, updated.Content.Items[0].Amount)
	assert.Equal(t, 1200.0, updated.Content.Total)
	assert.Equal(t, "ONE THOUSAND AND TWO HUNDRED QATAR RIYALS ONLY.", updated.Content.TotalInWords)
}

func TestQuotationOperationsOnMissingThread(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)

	_, err := env.quotations.ListByThread(ctx, thread.Quotations[0].ID)
	assert.ErrorIs(t, err, ErrThreadNotFound)

	_, err = env.quotations.CreateRevision(ctx, thread.ID, &domain.CreateRevisionRequest{
		PreviousQuotationID: thread.ID,
	})
	assert.ErrorIs(t, err, ErrQuotationNotFound)
}

func TestSetFinalLockedOnceWorkflowAdvances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	thread := createTestThread(t, env)
	base := thread.Quotations[0]

	_, err := env.quotations.SetFinal(ctx, thread.ID, base.ID)
	require.NoError(t, err)

	for _, status := range []domain.ThreadStatus{
		domain.ThreadStatusPurchaseOrderRecieved,
		domain.ThreadStatusCompleted,
	} {
		require.NoError(t, env.db.Model(&domain.Thread{}).
			Where("id = ?", thread.ID).
			Update("status", status).Error)

		_, err = env.quotations.SetFinal(ctx, thread.ID, base.ID)
		pe, ok := AsPrecondition(err)
		require.True(t, ok, "status %s", status)
		assert.Equal(t, "thread_in_progress", pe.Guard)

		reloaded, err := env.threads.GetByID(ctx, thread.ID)
		require.NoError(t, err)
		assert.Equal(t, status, reloaded.Status, "status must not regress")
	}
}
