package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
	"github.com/Apurer/rack-rental/internal/domains/payments/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory payment store.
type Repository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
}

func NewRepository() *Repository {
	return &Repository{payments: map[string]*domain.Payment{}}
}

func (r *Repository) Create(_ context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, errors.New("payment is nil")
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[payment.ID]; exists {
		return nil, ports.ErrAlreadyExists
	}
	r.payments[payment.ID] = payment.Clone()
	return payment.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		if filter.OrderID != "" && payment.OrderID != filter.OrderID {
			continue
		}
		if filter.PayerID != "" && payment.PayerID != filter.PayerID {
			continue
		}
		result = append(result, payment.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
