package mapper

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/rack-rental/internal/domains/orders/domain"
	"github.com/Apurer/rack-rental/internal/domains/orders/ports"
)

// CreateOrderRequest is the transport shape of a new rental request.
type CreateOrderRequest struct {
	UserID      string             `json:"userId"`
	RackCount   int                `json:"rackCount"`
	DesiredType string             `json:"desiredType"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
}

// Order is the transport shape of an order.
type Order struct {
	OrderID       string             `json:"orderId"`
	UserID        string             `json:"userId"`
	StartDate     openapi_types.Date `json:"startDate"`
	EndDate       openapi_types.Date `json:"endDate"`
	RackCount     int                `json:"rackCount"`
	DesiredType   string             `json:"desiredType"`
	AssignedRacks []string           `json:"assignedRacks"`
	Status        string             `json:"status"`
	Version       int64              `json:"version"`
}

// ToCreateInput converts the request into the service input, parsing the category at the boundary.
func ToCreateInput(req CreateOrderRequest) (ports.CreateOrderInput, error) {
	category, err := domain.ParseCategory(req.DesiredType)
	if err != nil {
		return ports.CreateOrderInput{}, err
	}
	return ports.CreateOrderInput{
		RenterID:  req.UserID,
		RackCount: req.RackCount,
		Category:  category,
		StartDate: req.StartDate.Time,
		EndDate:   req.EndDate.Time,
	}, nil
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	racks := order.AssignedRacks
	if racks == nil {
		racks = []string{}
	}
	return Order{
		OrderID:       order.ID,
		UserID:        order.RenterID,
		StartDate:     openapi_types.Date{Time: order.StartDate},
		EndDate:       openapi_types.Date{Time: order.EndDate},
		RackCount:     order.RackCount,
		DesiredType:   string(order.Category),
		AssignedRacks: racks,
		Status:        string(order.Status),
		Version:       order.Version,
	}
}

// FromDomainOrders converts a list of orders, never returning nil.
func FromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
