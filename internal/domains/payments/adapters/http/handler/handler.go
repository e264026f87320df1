package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/rack-rental/internal/domains/payments/adapters/http/mapper"
	"github.com/Apurer/rack-rental/internal/domains/payments/application"
	"github.com/Apurer/rack-rental/internal/domains/payments/domain"
	"github.com/Apurer/rack-rental/internal/domains/payments/ports"
	apierrors "github.com/Apurer/rack-rental/internal/shared/errors"
)

// PaymentAPI exposes the payment ledger over HTTP.
type PaymentAPI struct {
	service   ports.Service
	responder *apierrors.ChainedResponder
}

func NewPaymentAPI(service ports.Service) *PaymentAPI {
	return &PaymentAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", ProblemFromError),
	}
}

// RegisterRoutes mounts the payment endpoints under /api/payments.
func (api *PaymentAPI) RegisterRoutes(r gin.IRouter) {
	payments := r.Group("/api/payments")
	payments.POST("", api.CreatePayment)
	payments.GET("", api.ListPayments)
	payments.GET("/order/:orderId", api.ListByOrder)
	payments.GET("/user/:userId", api.ListByPayer)
}

// Post /api/payments
func (api *PaymentAPI) CreatePayment(c *gin.Context) {
	var payload mapper.CreatePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, "request body must be a valid payment")
		return
	}
	payment, err := api.service.CreatePayment(c.Request.Context(), mapper.ToCreateInput(payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainPayment(payment))
}

// Get /api/payments
func (api *PaymentAPI) ListPayments(c *gin.Context) {
	payments, err := api.service.ListPayments(c.Request.Context())
	api.respondPayments(c, payments, err)
}

// Get /api/payments/order/:orderId
func (api *PaymentAPI) ListByOrder(c *gin.Context) {
	payments, err := api.service.ListByOrder(c.Request.Context(), c.Param("orderId"))
	api.respondPayments(c, payments, err)
}

// Get /api/payments/user/:userId
func (api *PaymentAPI) ListByPayer(c *gin.Context) {
	payments, err := api.service.ListByPayer(c.Request.Context(), c.Param("userId"))
	api.respondPayments(c, payments, err)
}

func (api *PaymentAPI) respondPayments(c *gin.Context, payments []*domain.Payment, err error) {
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainPayments(payments))
}

// ProblemFromError maps payment ledger errors to problem responses.
func ProblemFromError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, application.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()).WithKind("invalid_input", false), true
	}
	return apierrors.ProblemDetail{}, false
}
