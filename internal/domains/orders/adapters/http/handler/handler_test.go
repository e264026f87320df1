package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

type recordingService struct {
	created    ports.CreateOrderInput
	transition string
	rangeStart time.Time
	rangeEnd   time.Time
	order      *domain.Order
	err        error
}

func (s *recordingService) CreateOrder(_ context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	s.created = input
	return s.order, s.err
}

func (s *recordingService) ConfirmOrder(_ context.Context, _ string) (*domain.Order, error) {
	s.transition = "confirm"
	return s.order, s.err
}

func (s *recordingService) CancelOrder(_ context.Context, _ string) (*domain.Order, error) {
	s.transition = "cancel"
	return s.order, s.err
}

func (s *recordingService) StartOrder(_ context.Context, _ string) (*domain.Order, error) {
	s.transition = "start"
	return s.order, s.err
}

func (s *recordingService) FinishOrder(_ context.Context, _ string) (*domain.Order, error) {
	s.transition = "finish"
	return s.order, s.err
}

func (s *recordingService) GetOrder(_ context.Context, _ string) (*domain.Order, error) {
	return s.order, s.err
}

func (s *recordingService) ListOrdersByDateRange(_ context.Context, start, end time.Time) ([]*domain.Order, error) {
	s.rangeStart, s.rangeEnd = start, end
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:            "ord1a2b3c4d",
		RenterID:      "u1",
		StartDate:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		RackCount:     2,
		Category:      domain.CategoryStandard,
		AssignedRacks: []string{"r101", "r102"},
		Status:        domain.StatusConfirmed,
		Version:       2,
	}
}

func newRouter(svc ports.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewOrderAPI(svc, nil).RegisterRoutes(router)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder_Created(t *testing.T) {
	svc := &recordingService{order: sampleOrder()}
	rec := serve(newRouter(svc), http.MethodPost, "/api/orders",
		`{"userId":"u1","rackCount":2,"desiredType":"standard","startDate":"2025-01-10","endDate":"2025-01-15"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.CategoryStandard, svc.created.Category)
	assert.Equal(t, 2, svc.created.RackCount)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), svc.created.StartDate)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ord1a2b3c4d", body["orderId"])
	assert.Equal(t, "2025-01-10", body["startDate"])
	assert.Equal(t, "CONFIRMED", body["status"])
}

func TestCreateOrder_UnknownCategory(t *testing.T) {
	rec := serve(newRouter(&recordingService{}), http.MethodPost, "/api/orders",
		`{"userId":"u1","rackCount":1,"desiredType":"FROZEN","startDate":"2025-01-10","endDate":"2025-01-15"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestTransitions_RouteToService(t *testing.T) {
	for _, op := range []string{"confirm", "cancel", "start", "finish"} {
		svc := &recordingService{order: sampleOrder()}
		rec := serve(newRouter(svc), http.MethodPut, "/api/orders/ord1a2b3c4d/"+op, "")
		require.Equal(t, http.StatusOK, rec.Code, op)
		assert.Equal(t, op, svc.transition)
	}
}

func TestErrorKinds_MapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("%w: %w", application.ErrInvalidInput, domain.ErrInvalidDateRange), http.StatusBadRequest, "invalid_input"},
		{application.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
		{application.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
		{application.ErrInsufficientInventory, http.StatusConflict, "insufficient_inventory"},
		{application.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
		{application.ErrPaymentRequired, http.StatusPaymentRequired, "payment_required"},
		{fmt.Errorf("%w: inventory-ledger assign: dial tcp 10.1.2.3:8081: i/o timeout", application.ErrCollaboratorUnavailable), http.StatusServiceUnavailable, "collaborator_unavailable"},
	}
	for _, tc := range cases {
		rec := serve(newRouter(&recordingService{err: tc.err}), http.MethodPut, "/api/orders/ord1a2b3c4d/confirm", "")
		require.Equal(t, tc.status, rec.Code, tc.kind)

		var problem map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, tc.kind, problem["kind"])
		assert.NotContains(t, rec.Body.String(), "10.1.2.3")
	}
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	rec := serve(newRouter(&recordingService{err: fmt.Errorf("pq: password authentication failed for user admin")}), http.MethodGet, "/api/orders/ord1a2b3c4d", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestListOrdersByDateRange(t *testing.T) {
	svc := &recordingService{order: sampleOrder()}
	rec := serve(newRouter(svc), http.MethodGet, "/api/orders/date-range?startDate=2025-01-01&endDate=2025-01-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), svc.rangeEnd)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = serve(newRouter(svc), http.MethodGet, "/api/orders/date-range?startDate=yesterday&endDate=2025-01-31", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
