package matrix_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tripboard/matrix"
	"github.com/warp/tripboard/matrix/store"
)

func newEngine() *matrix.Engine {
	return matrix.NewEngine(store.NewMemory())
}

func TestCreateOrReuse(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a complete row", func(t *testing.T) {
		engine := newEngine()

		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "12.5")
		require.NoError(t, err)
		assert.Equal(t, "Mumbai", row.Origin)
		assert.Equal(t, "Pune", row.Destination)
		assert.True(t, row.Complete)
		assert.True(t, row.Active)
		assert.Equal(t, "12.50", matrix.FormatRate(row.Rate))
	})

	t.Run("trims key fields before storing", func(t *testing.T) {
		engine := newEngine()

		row, err := engine.CreateOrReuse(ctx, "  Mumbai ", "Pune\t", " Acme", "Truck-1 ", "")
		require.NoError(t, err)
		assert.Equal(t, "Mumbai", row.Origin)
		assert.Equal(t, "Pune", row.Destination)
		assert.Equal(t, "Acme", row.Client)
		assert.Equal(t, "Truck-1", row.Unit)
		assert.Nil(t, row.Rate)
	})

	t.Run("identical resubmission reuses the row", func(t *testing.T) {
		engine := newEngine()

		first, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "12.50")
		require.NoError(t, err)

		second, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "12.50")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		rows, err := engine.ListActive(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("reuse ignores a different supplied rate", func(t *testing.T) {
		engine := newEngine()

		first, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "12.50")
		require.NoError(t, err)

		second, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "99.99")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "12.50", matrix.FormatRate(second.Rate))
	})

	t.Run("key match is case sensitive", func(t *testing.T) {
		engine := newEngine()

		first, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		second, err := engine.CreateOrReuse(ctx, "MUMBAI", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("missing field names the field and inserts nothing", func(t *testing.T) {
		engine := newEngine()

		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "  ", "Truck-1", "")
		assert.Nil(t, row)
		require.ErrorIs(t, err, matrix.ErrValidation)

		var verr *matrix.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "client", verr.Field)

		rows, err := engine.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("malformed rate rejected", func(t *testing.T) {
		engine := newEngine()

		_, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "cheap")
		require.ErrorIs(t, err, matrix.ErrValidation)
	})

	t.Run("deleted row is not reused", func(t *testing.T) {
		engine := newEngine()

		first, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		_, err = engine.SoftDelete(ctx, first.ID)
		require.NoError(t, err)

		second, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestUpdateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites and formats at two places", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		got, err := engine.UpdateRate(ctx, row.ID, "12.5")
		require.NoError(t, err)
		assert.Equal(t, "12.50", got)
	})

	t.Run("blank clears the rate", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "12.50")
		require.NoError(t, err)

		got, err := engine.UpdateRate(ctx, row.ID, "  ")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("key fields stay locked across rate edits", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		_, err = engine.UpdateRate(ctx, row.ID, "5")
		require.NoError(t, err)

		rows, err := engine.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Mumbai", rows[0].Origin)
		assert.Equal(t, "Pune", rows[0].Destination)
		assert.Equal(t, "Acme", rows[0].Client)
		assert.Equal(t, "Truck-1", rows[0].Unit)
	})

	t.Run("inactive row still accepts rate edits", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		_, err = engine.SoftDelete(ctx, row.ID)
		require.NoError(t, err)

		got, err := engine.UpdateRate(ctx, row.ID, "3")
		require.NoError(t, err)
		assert.Equal(t, "3.00", got)
	})

	t.Run("unknown row", func(t *testing.T) {
		engine := newEngine()

		_, err := engine.UpdateRate(ctx, 404, "3")
		require.ErrorIs(t, err, matrix.ErrRowNotFound)
	})
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the row from both listings", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		id, err := engine.SoftDelete(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, row.ID, id)

		active, err := engine.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)

		selectable, err := engine.ListSelectable(ctx)
		require.NoError(t, err)
		assert.Empty(t, selectable)
	})

	t.Run("deleting twice is a no-op success", func(t *testing.T) {
		engine := newEngine()
		row, err := engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
		require.NoError(t, err)

		_, err = engine.SoftDelete(ctx, row.ID)
		require.NoError(t, err)

		id, err := engine.SoftDelete(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, row.ID, id)
	})

	t.Run("unknown row is an error", func(t *testing.T) {
		engine := newEngine()

		_, err := engine.SoftDelete(ctx, 404)
		require.ErrorIs(t, err, matrix.ErrRowNotFound)
	})
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	engine := newEngine()

	_, err := engine.CreateOrReuse(ctx, "Delhi", "Agra", "Acme", "Truck-2", "8")
	require.NoError(t, err)
	_, err = engine.CreateOrReuse(ctx, "Mumbai", "Pune", "Acme", "Truck-1", "")
	require.NoError(t, err)

	t.Run("ordered by key tuple ascending", func(t *testing.T) {
		rows, err := engine.ListSelectable(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Delhi", rows[0].Origin)
		assert.Equal(t, "Mumbai", rows[1].Origin)
	})
}
