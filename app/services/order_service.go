package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/collection"
	"github.com/hostelease/hostelease/pkg/event"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/metrics"
	"gorm.io/gorm"
)

// Event names fired on order mutations.
const (
	EventOrderPlaced         = "order.placed"
	EventOrderStatusChanged  = "order.status_changed"
	EventOrderPaymentChanged = "order.payment_changed"
)

// OrderService validates input, computes totals server-side and enforces
// the fulfillment/payment state machine.
type OrderService struct {
	orders   *repositories.OrderRepository
	products *repositories.ProductRepository
}

func NewOrderService(orders *repositories.OrderRepository, products *repositories.ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products}
}

// OrderLine is one requested (product, quantity) pair.
type OrderLine struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// PlaceOrderInput is the body of a product order.
type PlaceOrderInput struct {
	Products            []OrderLine          `json:"products"`
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	SpecialInstructions string               `json:"specialInstructions"`
}

// CustomOrderInput is the body of a custom order.
type CustomOrderInput struct {
	Description         string               `json:"description" validate:"required"`
	EstimatedPrice      float64              `json:"estimatedPrice" validate:"required,gt=0"`
	Items               []string             `json:"items"`
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	SpecialInstructions string               `json:"specialInstructions"`
}

// ParcelOrderInput is the body of a parcel-pickup request.
type ParcelOrderInput struct {
	CourierName         models.Courier `json:"courierName" validate:"required"`
	TrackingNumber      string         `json:"trackingNumber"`
	SenderName          string         `json:"senderName"`
	PickupLocation      string         `json:"pickupLocation"`
	DeliveryRoom        string         `json:"deliveryRoom" validate:"required"`
	PaymentMethod       models.PaymentMethod `json:"paymentMethod"`
	SpecialInstructions string         `json:"specialInstructions"`
}

// PlaceProductOrder creates a product order. Line totals always come from
// the current catalog prices; anything the client claims is ignored.
func (s *OrderService) PlaceProductOrder(userID uint, input PlaceOrderInput) (*models.Order, error) {
	if len(input.Products) == 0 {
		return nil, ErrEmptyOrder
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	ids := collection.Unique(collection.Map(input.Products, func(l OrderLine) uint {
		return l.ProductID
	}))
	found, err := s.products.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := collection.KeyBy(found, func(p models.Product) uint { return p.ID })

	items := make([]models.OrderItem, 0, len(input.Products))
	for _, line := range input.Products {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  qty,
		})
	}

	total := collection.Sum(items, func(i models.OrderItem) float64 {
		return i.Price * float64(i.Quantity)
	})

	order := &models.Order{
		UserID:              userID,
		OrderType:           models.OrderTypeProduct,
		Items:               items,
		TotalPrice:          total,
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
	}
	return s.place(order)
}

// PlaceCustomOrder creates a custom order. The total is the student's
// estimated price verbatim.
func (s *OrderService) PlaceCustomOrder(userID uint, input CustomOrderInput) (*models.Order, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if input.EstimatedPrice <= 0 {
		return nil, fmt.Errorf("%w: estimated price must be greater than zero", ErrInvalidInput)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	order := &models.Order{
		UserID:              userID,
		OrderType:           models.OrderTypeCustom,
		CustomDescription:   strings.TrimSpace(input.Description),
		EstimatedPrice:      input.EstimatedPrice,
		TotalPrice:          input.EstimatedPrice,
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
	}
	if err := order.SetCustomItems(input.Items); err != nil {
		return nil, fmt.Errorf("%w: items: %v", ErrInvalidInput, err)
	}
	return s.place(order)
}

// PlaceParcelOrder creates a parcel-pickup request charged at the
// configured flat service fee.
func (s *OrderService) PlaceParcelOrder(userID uint, input ParcelOrderInput) (*models.Order, error) {
	if !input.CourierName.Valid() {
		return nil, fmt.Errorf("%w: unknown courier %q", ErrInvalidInput, input.CourierName)
	}
	if strings.TrimSpace(input.DeliveryRoom) == "" {
		return nil, fmt.Errorf("%w: delivery room is required", ErrInvalidInput)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	pickup := strings.TrimSpace(input.PickupLocation)
	if pickup == "" {
		pickup = models.DefaultPickupLocation
	}

	order := &models.Order{
		UserID:              userID,
		OrderType:           models.OrderTypeParcel,
		CourierName:         input.CourierName,
		TrackingNumber:      input.TrackingNumber,
		SenderName:          input.SenderName,
		PickupLocation:      pickup,
		DeliveryRoom:        strings.TrimSpace(input.DeliveryRoom),
		TotalPrice:          config.ParcelServiceFee(),
		Status:              models.StatusPending,
		PaymentStatus:       models.PaymentPending,
		PaymentMethod:       input.PaymentMethod,
		SpecialInstructions: input.SpecialInstructions,
	}
	return s.place(order)
}

func (s *OrderService) place(order *models.Order) (*models.Order, error) {
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.WithLabelValues(string(order.OrderType)).Inc()
	logger.Info("orders: placed",
		"order_id", order.ID, "type", string(order.OrderType),
		"user_id", order.UserID, "total", order.TotalPrice)
	event.FireAsync(EventOrderPlaced, order)
	return order, nil
}

// MyOrders returns the caller's orders, newest first.
func (s *OrderService) MyOrders(userID uint) ([]models.Order, error) {
	return s.orders.ByUser(userID)
}

// AllOrders returns every order with owner details, newest first.
func (s *OrderService) AllOrders() ([]models.Order, error) {
	return s.orders.All()
}

// UpdateStatus applies an admin fulfillment transition. Only forward moves
// through Pending → Assigned → Delivered are allowed; Cancelled is
// reachable from any non-terminal state. Anything else is a conflict.
func (s *OrderService) UpdateStatus(orderID uint, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidStatus, target)
	}

	order, err := s.find(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, order.Status, target)
	}

	order.Status = target
	if target == models.StatusCancelled && order.PaymentStatus == models.PaymentPaid {
		order.PaymentStatus = models.PaymentRefunded
	}
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(target)).Inc()
	logger.Info("orders: status updated", "order_id", order.ID, "status", string(target))
	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}

// UpdatePaymentInput carries an admin payment-status overwrite.
type UpdatePaymentInput struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PaymentRef    string               `json:"paymentRef"`
}

// UpdatePayment sets an order's payment status. Payment moves
// independently of fulfillment, so any of the four values is accepted.
func (s *OrderService) UpdatePayment(orderID uint, input UpdatePaymentInput) (*models.Order, error) {
	if !input.PaymentStatus.Valid() {
		return nil, fmt.Errorf("%w: payment status %q", ErrInvalidStatus, input.PaymentStatus)
	}
	if !input.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: payment method %q", ErrInvalidStatus, input.PaymentMethod)
	}

	order, err := s.find(orderID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = input.PaymentStatus
	if input.PaymentMethod != "" {
		order.PaymentMethod = input.PaymentMethod
	}
	if input.PaymentRef != "" {
		order.PaymentRef = input.PaymentRef
	}
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	metrics.PaymentEvents.WithLabelValues("admin", strings.ToLower(string(input.PaymentStatus))).Inc()
	logger.Info("orders: payment updated", "order_id", order.ID, "payment_status", string(input.PaymentStatus))
	event.FireAsync(EventOrderPaymentChanged, order)
	return order, nil
}

// Cancel cancels an order on behalf of its owner or an admin. Delivered
// and already-cancelled orders are conflicts; a Paid order is refunded.
func (s *OrderService) Cancel(orderID, callerID uint, callerRole auth.Role) (*models.Order, error) {
	order, err := s.find(orderID)
	if err != nil {
		return nil, err
	}

	if !callerRole.IsAdmin() && order.UserID != callerID {
		return nil, ErrForbidden
	}

	switch order.Status {
	case models.StatusCancelled:
		return nil, ErrAlreadyCancelled
	case models.StatusDelivered:
		return nil, ErrOrderDelivered
	}

	order.Status = models.StatusCancelled
	if order.PaymentStatus == models.PaymentPaid {
		order.PaymentStatus = models.PaymentRefunded
	}
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(models.StatusCancelled)).Inc()
	logger.Info("orders: cancelled", "order_id", order.ID, "by_user", callerID)
	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}

// MarkPaymentByRef sets the payment status of the order holding the given
// external reference. The webhook and the verify endpoint both land here;
// source labels the metrics accordingly.
func (s *OrderService) MarkPaymentByRef(ref string, status models.PaymentStatus, source string) (*models.Order, error) {
	if ref == "" {
		// Unreferenced orders carry an empty payment_ref; an empty lookup
		// key would match one of them.
		return nil, ErrNotFound
	}

	order, err := s.orders.FindByPaymentRef(ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.PaymentStatus == status {
		return order, nil
	}

	order.PaymentStatus = status
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	metrics.PaymentEvents.WithLabelValues(source, strings.ToLower(string(status))).Inc()
	logger.Info("orders: payment marked",
		"order_id", order.ID, "payment_status", string(status), "source", source)
	event.FireAsync(EventOrderPaymentChanged, order)
	return order, nil
}

// AttachPaymentRef stores the provider intent id on an order so later
// webhook events can find it.
func (s *OrderService) AttachPaymentRef(orderID uint, ref string) error {
	order, err := s.find(orderID)
	if err != nil {
		return err
	}
	order.PaymentRef = ref
	return s.orders.Save(order)
}

func (s *OrderService) find(orderID uint) (*models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}
