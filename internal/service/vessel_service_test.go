package service

import (
	"context"
	"testing"

	"github.com/highrangestar/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVesselDerivesCode(t *testing.T) {
	env := newTestEnv(t)

	vessel, err := env.vessels.Create(context.Background(), &domain.CreateVesselRequest{
		Name:    "Al Safliya",
		Number:  2,
		Aliases: []string{"Safliya", "ALS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", vessel.Code)
	assert.Equal(t, domain.DefaultSerialFormat, vessel.SerialFormat)
	assert.Equal(t, []string{"Safliya", "ALS"}, vessel.Aliases)
}

func TestCreateVesselRejectsBadSerialFormat(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.vessels.Create(ctx, &domain.CreateVesselRequest{
		Name:         "Horizon",
		Number:       1,
		SerialFormat: "1##",
	})
	assert.ErrorIs(t, err, ErrInvalidSerialFormat)

	vessel, err := env.vessels.Create(ctx, &domain.CreateVesselRequest{Name: "Horizon", Number: 1})
	require.NoError(t, err)

	badFormat := "##X"
	_, err = env.vessels.Update(ctx, vessel.ID, &domain.UpdateVesselRequest{SerialFormat: &badFormat})
	assert.ErrorIs(t, err, ErrInvalidSerialFormat)
}

func TestUpdateVesselRederivesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	vessel, err := env.vessels.Create(ctx, &domain.CreateVesselRequest{Name: "Horizon", Number: 1})
	require.NoError(t, err)
	assert.Equal(t, "H1", vessel.Code)

	newNumber := 7
	updated, err := env.vessels.Update(ctx, vessel.ID, &domain.UpdateVesselRequest{Number: &newNumber})
	require.NoError(t, err)
	assert.Equal(t, "H7", updated.Code)
	assert.Equal(t, "Horizon", updated.Name)
}

func TestVesselSerialFormatDrivesLineNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.vessels.Create(ctx, &domain.CreateVesselRequest{
		Name:         "Al Safliya",
		Number:       2,
		SerialFormat: "S###",
	})
	require.NoError(t, err)

	input := testContentInput()
	input.VesselName = "Al Safliya"
	thread, err := env.threads.Create(ctx, &domain.CreateThreadRequest{Content: input})
	require.NoError(t, err)

	items := thread.Quotations[0].Content.Items
	require.Len(t, items, 2)
	assert.Equal(t, "S001", items[0].SlNo)
	assert.Equal(t, "S002", items[1].SlNo)
}

func TestDeleteVessel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	vessel, err := env.vessels.Create(ctx, &domain.CreateVesselRequest{Name: "Horizon", Number: 1})
	require.NoError(t, err)

	require.NoError(t, env.vessels.Delete(ctx, vessel.ID))
	err = env.vessels.Delete(ctx, vessel.ID)
	assert.ErrorIs(t, err, ErrVesselNotFound)
}
