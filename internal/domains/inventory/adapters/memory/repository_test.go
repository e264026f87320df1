package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

func TestRepository_MutateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	for _, id := range []string{"a1", "a2"} {
		_, err := repo.Save(ctx, &domain.Place{ID: id, Type: domain.TypeStandard, Status: domain.StatusFree})
		require.NoError(t, err)
	}

	boom := errors.New("boom")
	_, err := repo.Mutate(ctx, []string{"a1", "a2"}, func(places []*domain.Place) error {
		require.NoError(t, places[0].Occupy("u1", "ord1"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	a1, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, a1.Free())
}

func TestRepository_MutateMissingPlace(t *testing.T) {
	repo := NewRepository()
	_, err := repo.Mutate(context.Background(), []string{"ghost"}, func([]*domain.Place) error { return nil })
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_, err := repo.Save(ctx, &domain.Place{ID: "a1", Type: domain.TypeSecure, Status: domain.StatusFree})
	require.NoError(t, err)

	listed, err := repo.List(ctx, ports.Filter{Type: domain.TypeSecure})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Status = domain.StatusOccupied

	stored, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, stored.Free())
}
