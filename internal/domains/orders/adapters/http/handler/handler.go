package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/rack-rental/internal/domains/orders/adapters/http/mapper"
	"github.com/Apurer/rack-rental/internal/domains/orders/application"
	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
	apierrors "github.com/Apurer/rack-rental/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the order service and lifecycle workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *apierrors.ChainedResponder
}

// NewOrderAPI creates an OrderAPI. A nil workflows value runs transitions on the service directly.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) *OrderAPI {
	return &OrderAPI{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewChainedResponder("", ProblemFromError),
	}
}

// RegisterRoutes mounts the order endpoints under /api/orders.
func (api *OrderAPI) RegisterRoutes(r gin.IRouter) {
	orders := r.Group("/api/orders")
	orders.POST("", api.CreateOrder)
	orders.GET("/date-range", api.ListOrdersByDateRange)
	orders.GET("/:orderId", api.GetOrder)
	orders.PUT("/:orderId/confirm", api.transition(ports.TransitionConfirm))
	orders.PUT("/:orderId/cancel", api.transition(ports.TransitionCancel))
	orders.PUT("/:orderId/start", api.transition(ports.TransitionStart))
	orders.PUT("/:orderId/finish", api.transition(ports.TransitionFinish))
}

// Post /api/orders
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload mapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must be a valid order request")
		return
	}
	input, err := mapper.ToCreateInput(payload)
	if err != nil {
		api.responder.ValidationFailed(c, map[string]string{"desiredType": err.Error()})
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainOrder(order))
}

// Get /api/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id := c.Param("orderId")
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		api.respondError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
}

// Get /api/orders/date-range?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (api *OrderAPI) ListOrdersByDateRange(c *gin.Context) {
	var start, end openapi_types.Date
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "startDate", query, &start); err != nil {
		api.responder.ValidationFailed(c, map[string]string{"startDate": "must be a date in YYYY-MM-DD form"})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "endDate", query, &end); err != nil {
		api.responder.ValidationFailed(c, map[string]string{"endDate": "must be a date in YYYY-MM-DD form"})
		return
	}
	orders, err := api.service.ListOrdersByDateRange(c.Request.Context(), start.Time, end.Time)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainOrders(orders))
}

// Put /api/orders/:orderId/{confirm,cancel,start,finish}
func (api *OrderAPI) transition(transition ports.Transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderId")
		order, err := api.runTransition(c.Request.Context(), id, transition)
		if err != nil {
			api.respondError(c, id, err)
			return
		}
		c.JSON(http.StatusOK, mapper.FromDomainOrder(order))
	}
}

func (api *OrderAPI) runTransition(ctx context.Context, id string, transition ports.Transition) (*domain.Order, error) {
	if api.workflows != nil {
		return api.workflows.Transition(ctx, id, transition)
	}
	return transition.Apply(ctx, api.service, id)
}

// respondError names the requested order when it does not exist; everything else goes through the mappers.
func (api *OrderAPI) respondError(c *gin.Context, orderID string, err error) {
	if application.KindOf(err) == application.KindOrderNotFound {
		api.responder.Respond(c, apierrors.NewNotFoundProblem("order", orderID).
			WithKind(string(application.KindOrderNotFound), false))
		return
	}
	api.responder.RespondError(c, err)
}
