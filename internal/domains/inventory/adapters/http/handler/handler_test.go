package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/memory"
	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/seed"
	"github.com/Apurer/rack-rental/internal/domains/inventory/application"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	repo := memory.NewRepository()
	places, err := seed.LoadFile("")
	require.NoError(t, err)
	_, err = seed.Apply(context.Background(), repo, places)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewPlaceAPI(application.NewService(repo)).RegisterRoutes(router)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodePlaces(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var places []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &places))
	return places
}

func TestListFreeByType(t *testing.T) {
	router := newRouter(t)
	rec := serve(router, http.MethodGet, "/api/places/free/type/refrigerated", "")
	require.Equal(t, http.StatusOK, rec.Code)

	places := decodePlaces(t, rec)
	require.Len(t, places, 2)
	assert.Equal(t, "r201", places[0]["rackId"])
	assert.Equal(t, "120.50", places[0]["pricePerDay"])
	assert.Nil(t, places[0]["tenantId"])

	rec = serve(router, http.MethodGet, "/api/places/free/type/frozen", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGiveThenFree(t *testing.T) {
	router := newRouter(t)

	rec := serve(router, http.MethodPost, "/api/places/give", `{"placeIds":["r201","r202"],"userId":"u1","orderId":"ord0000abcd"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/api/places/user/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodePlaces(t, rec), 2)

	rec = serve(router, http.MethodPost, "/api/places/free", `{"placeIds":["r201","r202"],"orderId":"ord0000abcd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, place := range decodePlaces(t, rec) {
		assert.Equal(t, "FREE", place["status"])
	}
}

func TestGive_Conflict(t *testing.T) {
	router := newRouter(t)
	rec := serve(router, http.MethodPost, "/api/places/give", `{"placeIds":["r102","r101"],"userId":"u1","orderId":"ord0000abcd"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, KindPlacesUnavailable, problem["kind"])

	rec = serve(router, http.MethodGet, "/api/places/r102", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var place map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &place))
	assert.Equal(t, "FREE", place["status"])
}

func TestFree_AcceptsBareArray(t *testing.T) {
	router := newRouter(t)
	rec := serve(router, http.MethodPost, "/api/places/free", `["r101"]`)
	require.Equal(t, http.StatusOK, rec.Code)
	places := decodePlaces(t, rec)
	require.Len(t, places, 1)
	assert.Equal(t, "FREE", places[0]["status"])
}

func TestUnknownPlace(t *testing.T) {
	router := newRouter(t)
	rec := serve(router, http.MethodPost, "/api/places/free", `{"placeIds":["ghost"]}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, http.MethodPost, "/api/places/give", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/api/places/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, KindPlaceNotFound, problem["kind"])
	assert.Equal(t, "place with identifier 'ghost' not found", problem["detail"])
}
