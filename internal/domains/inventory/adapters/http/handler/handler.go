package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/rack-rental/internal/domains/inventory/adapters/http/mapper"
	"github.com/Apurer/rack-rental/internal/domains/inventory/application"
	"github.com/Apurer/rack-rental/internal/domains/inventory/domain"
	"github.com/Apurer/rack-rental/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/rack-rental/internal/shared/errors"
)

// Problem kinds reported by the inventory ledger. Clients branch on these, not on messages.
const (
	KindInvalidInput      = "invalid_input"
	KindPlaceNotFound     = "place_not_found"
	KindPlacesUnavailable = "racks_unavailable"
)

// PlaceAPI exposes the inventory ledger over HTTP.
type PlaceAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

func NewPlaceAPI(service ports.Service) *PlaceAPI {
	return &PlaceAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", ProblemFromError),
	}
}

// RegisterRoutes mounts the place endpoints under /api/places.
func (api *PlaceAPI) RegisterRoutes(r gin.IRouter) {
	places := r.Group("/api/places")
	places.GET("/free", api.ListFree)
	places.GET("/free/type/:type", api.ListFreeByType)
	places.GET("/user/:userId", api.ListByTenant)
	places.GET("/:placeId", api.GetPlace)
	places.POST("/give", api.Give)
	places.POST("/free", api.Free)
}

// Get /api/places/free
func (api *PlaceAPI) ListFree(c *gin.Context) {
	places, err := api.service.ListFree(c.Request.Context())
	api.respondPlaces(c, places, err)
}

// Get /api/places/free/type/:type
func (api *PlaceAPI) ListFreeByType(c *gin.Context) {
	placeType, err := domain.ParseType(c.Param("type"))
	if err != nil {
		api.responder.ValidationFailed(c, map[string]string{"type": "must be one of STANDARD, REFRIGERATED, SECURE"})
		return
	}
	places, err := api.service.ListFreeByType(c.Request.Context(), placeType)
	api.respondPlaces(c, places, err)
}

// Get /api/places/user/:userId
func (api *PlaceAPI) ListByTenant(c *gin.Context) {
	places, err := api.service.ListByTenant(c.Request.Context(), c.Param("userId"))
	api.respondPlaces(c, places, err)
}

// Get /api/places/:placeId
func (api *PlaceAPI) GetPlace(c *gin.Context) {
	id := c.Param("placeId")
	place, err := api.service.GetPlace(c.Request.Context(), id)
	if errors.Is(err, application.ErrPlaceNotFound) {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("place", id).WithKind(KindPlaceNotFound, false))
		return
	}
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainPlace(place))
}

// Post /api/places/give
func (api *PlaceAPI) Give(c *gin.Context) {
	var payload mapper.GivePlacesRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must list placeIds and a userId")
		return
	}
	places, err := api.service.Give(c.Request.Context(), mapper.ToGiveInput(payload))
	api.respondPlaces(c, places, err)
}

// Post /api/places/free
func (api *PlaceAPI) Free(c *gin.Context) {
	var payload mapper.FreePlacesRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must list placeIds")
		return
	}
	places, err := api.service.Free(c.Request.Context(), mapper.ToFreeInput(payload))
	api.respondPlaces(c, places, err)
}

func (api *PlaceAPI) respondPlaces(c *gin.Context, places []*domain.Place, err error) {
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainPlaces(places))
}

// ProblemFromError maps ledger errors to problem responses.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()).WithKind(KindInvalidInput, false), true
	case errors.Is(err, application.ErrPlaceNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithKind(KindPlaceNotFound, false), true
	case errors.Is(err, application.ErrPlacesUnavailable):
		return apierrors.ErrConflict.WithDetail(err.Error()).WithKind(KindPlacesUnavailable, false), true
	}
	return apierrors.ProblemDetail{}, false
}
