package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderhandler "github.com/Apurer/rack-rental/internal/domains/orders/adapters/http/handler"
	orderworkflows "github.com/Apurer/rack-rental/internal/domains/orders/adapters/workflows"
	platformobservability "github.com/Apurer/rack-rental/internal/platform/observability"
)

func newEmbeddedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clearEnv(t)
	cfg, err := LoadConfig(DefaultOrderServicePort)
	require.NoError(t, err)

	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	runtime, cleanup, err := buildOrderRuntime(context.Background(), cfg, instruments, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.Len(t, runtime.embedded, 2)

	apis := append([]routeRegistrar{
		orderhandler.NewOrderAPI(runtime.service, orderworkflows.NewInlineOrderWorkflows(runtime.service)),
	}, runtime.embedded...)
	return newRouter("test", apis...)
}

func call(t *testing.T, router http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func TestEmbeddedLedgersServeFullLifecycle(t *testing.T) {
	router := newEmbeddedRouter(t)

	code, created := call(t, router, http.MethodPost, "/api/orders", map[string]any{
		"userId":      "u100",
		"rackCount":   2,
		"desiredType": "REFRIGERATED",
		"startDate":   "2030-01-10",
		"endDate":     "2030-01-20",
	})
	require.Equal(t, http.StatusCreated, code)
	orderID, _ := created["orderId"].(string)
	require.NotEmpty(t, orderID)
	assert.Equal(t, "CREATED", created["status"])

	code, problem := call(t, router, http.MethodPut, "/api/orders/"+orderID+"/confirm", nil)
	require.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "payment_required", problem["kind"])

	code, _ = call(t, router, http.MethodPost, "/api/payments", map[string]any{
		"orderId": orderID,
		"userId":  "u100",
		"amount":  "241.00",
		"date":    "2030-01-01",
	})
	require.Equal(t, http.StatusCreated, code)

	code, confirmed := call(t, router, http.MethodPut, "/api/orders/"+orderID+"/confirm", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "CONFIRMED", confirmed["status"])
	assert.ElementsMatch(t, []any{"r201", "r202"}, confirmed["assignedRacks"])

	code, place := call(t, router, http.MethodGet, "/api/places/r201", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OCCUPIED", place["status"])
	assert.Equal(t, "u100", place["tenantId"])

	for _, step := range []struct{ transition, status string }{{"start", "ACTIVE"}, {"finish", "COMPLETED"}} {
		code, order := call(t, router, http.MethodPut, "/api/orders/"+orderID+"/"+step.transition, nil)
		require.Equal(t, http.StatusOK, code, step.transition)
		assert.Equal(t, step.status, order["status"])
	}

	code, place = call(t, router, http.MethodGet, "/api/places/r201", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "FREE", place["status"])
}

func TestEmbeddedInventoryShortageIsConflict(t *testing.T) {
	router := newEmbeddedRouter(t)

	code, created := call(t, router, http.MethodPost, "/api/orders", map[string]any{
		"userId":      "u200",
		"rackCount":   1,
		"desiredType": "SECURE",
		"startDate":   "2030-02-01",
		"endDate":     "2030-02-02",
	})
	require.Equal(t, http.StatusCreated, code)
	orderID := created["orderId"].(string)

	code, _ = call(t, router, http.MethodPost, "/api/places/give", map[string]any{
		"placeIds": []string{"r301"},
		"userId":   "u999",
		"orderId":  "external",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, router, http.MethodPost, "/api/payments", map[string]any{
		"orderId": orderID,
		"userId":  "u200",
		"amount":  "10",
	})
	require.Equal(t, http.StatusCreated, code)

	code, problem := call(t, router, http.MethodPut, "/api/orders/"+orderID+"/confirm", nil)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "insufficient_inventory", problem["kind"])
}

func TestInlineReason_TemporalNeedsSharedState(t *testing.T) {
	clearEnv(t)
	t.Setenv("INVENTORY_LEDGER_URL", "http://inventory-ledger:8081")
	t.Setenv("PAYMENT_LEDGER_URL", "http://payment-ledger:8082")
	cfg, err := LoadConfig(DefaultOrderServicePort)
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.OrderStore)

	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	runtime, cleanup, err := buildOrderRuntime(context.Background(), cfg, instruments, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.Empty(t, runtime.embedded)
	assert.Contains(t, runtime.inlineReason(cfg), "order store")

	cases := []struct {
		name    string
		runtime orderRuntime
		cfg     Config
		inline  bool
	}{
		{"shared store and remote ledgers", orderRuntime{sharedStore: true}, Config{}, false},
		{"embedded ledger", orderRuntime{sharedStore: true, embedded: []routeRegistrar{nil}}, Config{}, true},
		{"process-local store", orderRuntime{}, Config{}, true},
		{"temporal disabled", orderRuntime{sharedStore: true}, Config{TemporalDisabled: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inline, tc.runtime.inlineReason(tc.cfg) != "")
		})
	}
}

func TestEmbeddedDefaultsRunInline(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(DefaultOrderServicePort)
	require.NoError(t, err)

	instruments := &platformobservability.Instruments{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	runtime, cleanup, err := buildOrderRuntime(context.Background(), cfg, instruments, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.False(t, runtime.sharedStore)
	assert.NotEmpty(t, runtime.inlineReason(cfg))
}
