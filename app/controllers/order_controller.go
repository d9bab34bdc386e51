package controllers

import (
	"net/http"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/ctx"
)

// OrderController exposes order placement, listing, admin transitions and
// cancellation.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{orders: svc}
}

// Place handles POST /api/orders/place.
func (oc *OrderController) Place(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var input services.PlaceOrderInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.orders.PlaceProductOrder(id.UserID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Created(order)
}

// Custom handles POST /api/orders/custom.
func (oc *OrderController) Custom(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var input services.CustomOrderInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.orders.PlaceCustomOrder(id.UserID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Created(order)
}

// ParcelPickup handles POST /api/orders/parcel-pickup.
func (oc *OrderController) ParcelPickup(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var input services.ParcelOrderInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.orders.PlaceParcelOrder(id.UserID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Created(order)
}

// MyOrders handles GET /api/orders/my-orders.
func (oc *OrderController) MyOrders(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	orders, err := oc.orders.MyOrders(id.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(orders)
}

// All handles GET /api/orders/all (Admin).
func (oc *OrderController) All(c *ctx.Context) {
	orders, err := oc.orders.AllOrders()
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(orders)
}

type updateStatusInput struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /api/orders/update/{orderId} (Admin).
func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	orderID := c.ParamUint("orderId")
	if orderID == 0 {
		c.Error(http.StatusBadRequest, "invalid order id")
		return
	}

	var input updateStatusInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.orders.UpdateStatus(orderID, input.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(order)
}

// UpdatePayment handles PUT /api/orders/payment/{orderId} (Admin).
func (oc *OrderController) UpdatePayment(c *ctx.Context) {
	orderID := c.ParamUint("orderId")
	if orderID == 0 {
		c.Error(http.StatusBadRequest, "invalid order id")
		return
	}

	var input services.UpdatePaymentInput
	if !c.BindJSON(&input) {
		return
	}

	order, err := oc.orders.UpdatePayment(orderID, input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(order)
}

// Cancel handles PUT /api/orders/cancel/{orderId}. Students may cancel
// their own orders; admins anyone's.
func (oc *OrderController) Cancel(c *ctx.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	orderID := c.ParamUint("orderId")
	if orderID == 0 {
		c.Error(http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := oc.orders.Cancel(orderID, id.UserID, id.Role)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Success(order)
}
