package application

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

func seededService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	ctx := context.Background()
	for _, place := range []*domain.Place{
		{ID: "r101", Type: domain.TypeStandard, Status: domain.StatusOccupied, TenantID: "u001", PricePerDay: decimal.RequireFromString("50.00")},
		{ID: "r102", Type: domain.TypeStandard, Status: domain.StatusFree, PricePerDay: decimal.RequireFromString("50.00")},
		{ID: "r103", Type: domain.TypeStandard, Status: domain.StatusFree, PricePerDay: decimal.RequireFromString("50.00")},
		{ID: "r201", Type: domain.TypeRefrigerated, Status: domain.StatusFree, PricePerDay: decimal.RequireFromString("120.50")},
	} {
		_, err := repo.Save(ctx, place)
		require.NoError(t, err)
	}
	return NewService(repo), repo
}

func ids(places []*domain.Place) []string {
	out := make([]string, 0, len(places))
	for _, place := range places {
		out = append(out, place.ID)
	}
	return out
}

func TestListings(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	free, err := svc.ListFree(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"r102", "r103", "r201"}, ids(free))

	standard, err := svc.ListFreeByType(ctx, domain.TypeStandard)
	require.NoError(t, err)
	assert.Equal(t, []string{"r102", "r103"}, ids(standard))

	held, err := svc.ListByTenant(ctx, "u001")
	require.NoError(t, err)
	assert.Equal(t, []string{"r101"}, ids(held))

	_, err = svc.ListFreeByType(ctx, "FROZEN")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGive_AllOrNothing(t *testing.T) {
	svc, repo := seededService(t)
	ctx := context.Background()

	_, err := svc.Give(ctx, ports.GiveInput{PlaceIDs: []string{"r102", "r101"}, TenantID: "u1", OrderID: "ord00000001"})
	require.ErrorIs(t, err, ErrPlacesUnavailable)

	r102, err := repo.GetByID(ctx, "r102")
	require.NoError(t, err)
	assert.True(t, r102.Free(), "a refused grant must leave nothing assigned")

	_, err = svc.Give(ctx, ports.GiveInput{PlaceIDs: []string{"r102", "nope"}, TenantID: "u1", OrderID: "ord00000001"})
	require.ErrorIs(t, err, ErrPlaceNotFound)

	given, err := svc.Give(ctx, ports.GiveInput{PlaceIDs: []string{"r102", "r103"}, TenantID: "u1", OrderID: "ord00000001"})
	require.NoError(t, err)
	for _, place := range given {
		assert.Equal(t, domain.StatusOccupied, place.Status)
		assert.Equal(t, "ord00000001", place.OrderID)
	}
}

func TestGive_RejectsBadInput(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()
	for name, input := range map[string]ports.GiveInput{
		"no places":  {TenantID: "u1"},
		"blank id":   {PlaceIDs: []string{" "}, TenantID: "u1"},
		"duplicates": {PlaceIDs: []string{"r102", "r102"}, TenantID: "u1"},
		"no tenant":  {PlaceIDs: []string{"r102"}},
	} {
		_, err := svc.Give(ctx, input)
		require.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestFree_GuardedByOrder(t *testing.T) {
	svc, repo := seededService(t)
	ctx := context.Background()
	_, err := svc.Give(ctx, ports.GiveInput{PlaceIDs: []string{"r102"}, TenantID: "u1", OrderID: "ord00000001"})
	require.NoError(t, err)

	_, err = svc.Free(ctx, ports.FreeInput{PlaceIDs: []string{"r102"}, OrderID: "ord00000002"})
	require.NoError(t, err)
	r102, err := repo.GetByID(ctx, "r102")
	require.NoError(t, err)
	assert.False(t, r102.Free(), "a stale release from another order must not free the rack")

	for i := 0; i < 2; i++ {
		_, err = svc.Free(ctx, ports.FreeInput{PlaceIDs: []string{"r102"}, OrderID: "ord00000001"})
		require.NoError(t, err)
	}
	r102, err = repo.GetByID(ctx, "r102")
	require.NoError(t, err)
	assert.True(t, r102.Free())
}

func TestGive_ConcurrentGrantsNeverOverlap(t *testing.T) {
	svc, _ := seededService(t)
	ctx := context.Background()

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Give(ctx, ports.GiveInput{PlaceIDs: []string{"r102", "r103"}, TenantID: "u1", OrderID: "ord0000000" + string(rune('0'+i))})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	granted := 0
	for err := range results {
		if err == nil {
			granted++
			continue
		}
		require.ErrorIs(t, err, ErrPlacesUnavailable)
	}
	assert.Equal(t, 1, granted)
}
