package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryclient "github.com/Apurer/rack-rental/internal/clients/http/inventory"
	"github.com/Apurer/rack-rental/internal/clients/http/restclient"
	inventoryledger "github.com/Apurer/rack-rental/internal/domains/orders/adapters/external/inventory"
	"github.com/Apurer/rack-rental/internal/domains/orders/adapters/memory"
	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

type paidLedger struct{}

func (paidLedger) QueryByOrder(_ context.Context, orderID string) ([]ports.Payment, error) {
	return []ports.Payment{{ID: "p0000beef", OrderID: orderID, PayerID: "u1", Amount: decimal.RequireFromString("80.00")}}, nil
}

// refusingInventory lists two free racks but refuses every grant the way the ledger does when it loses a race.
func refusingInventory(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/places/free/type/{type}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"rackId":"rack-a","number":1,"type":"STANDARD","status":"FREE","pricePerDay":"10.00"},`+
			`{"rackId":"rack-b","number":2,"type":"STANDARD","status":"FREE","pricePerDay":"10.00"}]`)
	})
	mux.HandleFunc("POST /api/places/give", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"type":"/problems/conflict","title":"Conflict","status":409,`+
			`"detail":"places are not available: place is not free: rack-a","kind":"racks_unavailable"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestConfirm_RefusedGrantKeepsLedgerDetailPrivate(t *testing.T) {
	ledger := refusingInventory(t)
	client, err := inventoryclient.NewInventoryClient(ledger.URL, restclient.NewHTTPClient(time.Second))
	require.NoError(t, err)

	svc := application.NewService(memory.NewRepository(), inventoryledger.NewHTTPLedger(client), paidLedger{},
		application.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	order, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		RenterID:  "u1",
		RackCount: 1,
		Category:  domain.CategoryStandard,
		StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rec := serve(newRouter(svc), http.MethodPut, "/api/orders/"+order.ID+"/confirm", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "insufficient_inventory", problem["kind"])
	assert.Equal(t, insufficientDetail, problem["detail"])
	assert.NotContains(t, rec.Body.String(), "(status 409)")
	assert.NotContains(t, rec.Body.String(), "not free")
	assert.NotContains(t, rec.Body.String(), "rack-a")
}

func TestProblemFromError_DetailsAreFixedPerKind(t *testing.T) {
	kinds := []error{
		application.ErrInvalidTransition,
		application.ErrInsufficientInventory,
		application.ErrOrderNotFound,
	}
	for _, err := range kinds {
		wrapped := fmt.Errorf("%w: inventory ledger refused the grant: Conflict (status 409)", err)
		problem, ok := ProblemFromError(wrapped)
		require.True(t, ok)
		assert.NotContains(t, problem.Detail, "status 409", err.Error())
	}
}

func TestGetOrder_UnknownNamesTheOrder(t *testing.T) {
	rec := serve(newRouter(&recordingService{err: application.ErrOrderNotFound}), http.MethodGet, "/api/orders/ordmissing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "order_not_found", problem["kind"])
	assert.Equal(t, "order with identifier 'ordmissing' not found", problem["detail"])
}
