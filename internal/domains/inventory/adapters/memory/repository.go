package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps places in memory. Mutate holds the write lock for the whole callback.
type Repository struct {
	mu     sync.RWMutex
	places map[string]*domain.Place
}

func NewRepository() *Repository {
	return &Repository{places: map[string]*domain.Place{}}
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Place, 0, len(r.places))
	for _, place := range r.places {
		if matches(place, filter) {
			result = append(result, place.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Place, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	place, ok := r.places[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return place.Clone(), nil
}

func (r *Repository) Save(_ context.Context, place *domain.Place) (*domain.Place, error) {
	if place == nil {
		return nil, errors.New("place is nil")
	}
	if err := place.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.places[place.ID] = place.Clone()
	return place.Clone(), nil
}

func (r *Repository) Mutate(_ context.Context, ids []string, fn ports.MutateFunc) ([]*domain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	working := make([]*domain.Place, 0, len(ids))
	for _, id := range ids {
		place, ok := r.places[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
		}
		working = append(working, place.Clone())
	}
	if err := fn(working); err != nil {
		return nil, err
	}
	for _, place := range working {
		if err := place.Validate(); err != nil {
			return nil, err
		}
	}
	result := make([]*domain.Place, 0, len(working))
	for _, place := range working {
		r.places[place.ID] = place
		result = append(result, place.Clone())
	}
	return result, nil
}

func matches(place *domain.Place, filter ports.Filter) bool {
	if filter.Type != "" && place.Type != filter.Type {
		return false
	}
	if filter.Status != "" && place.Status != filter.Status {
		return false
	}
	if filter.TenantID != "" && place.TenantID != filter.TenantID {
		return false
	}
	return true
}
