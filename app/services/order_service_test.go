package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/auth"
)

func TestPlaceProductOrderTotals(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)
	chips := seedProduct(t, db, "Chips", 20)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{
			{ProductID: maggi.ID, Quantity: 2},
			{ProductID: chips.ID}, // quantity omitted, defaults to 1
		},
		PaymentMethod: models.MethodUPI,
	})
	require.NoError(t, err)

	// Totals come from the catalog, never from the client.
	assert.Equal(t, 45*2+20*1.0, order.TotalPrice)
	assert.Equal(t, models.OrderTypeProduct, order.OrderType)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "Maggi", order.Items[0].Name, "name snapshotted at order time")
	assert.Equal(t, 45.0, order.Items[0].Price, "price snapshotted at order time")
	assert.Equal(t, 1, order.Items[1].Quantity)
}

func TestPlaceProductOrderSnapshotSurvivesPriceChange(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Catalog price changes after the fact.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", maggi.ID).
		Update("price", 60).Error)

	mine, err := svc.MyOrders(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.TotalPrice, mine[0].TotalPrice)
	assert.Equal(t, 45.0, mine[0].Items[0].Price, "old orders keep the old price")
}

func TestPlaceProductOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	_, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{})
	assert.ErrorIs(t, err, services.ErrEmptyOrder)

	_, err = svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: 9999}},
	})
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products:      []services.OrderLine{{ProductID: maggi.ID}},
		PaymentMethod: "Cheque",
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestPlaceCustomOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")

	order, err := svc.PlaceCustomOrder(user.ID, services.CustomOrderInput{
		Description:    "  Two plates of momos from the night canteen  ",
		EstimatedPrice: 120,
		Items:          []string{"veg momos", "schezwan chutney"},
		PaymentMethod:  models.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypeCustom, order.OrderType)
	assert.Equal(t, "Two plates of momos from the night canteen", order.CustomDescription)
	assert.Equal(t, 120.0, order.TotalPrice, "custom total is the estimate verbatim")
	assert.Equal(t, []string{"veg momos", "schezwan chutney"}, order.CustomItemList())
}

func TestPlaceCustomOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")

	_, err := svc.PlaceCustomOrder(user.ID, services.CustomOrderInput{
		Description:    "   ",
		EstimatedPrice: 50,
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.PlaceCustomOrder(user.ID, services.CustomOrderInput{
		Description:    "something",
		EstimatedPrice: 0,
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestPlaceParcelOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")

	order, err := svc.PlaceParcelOrder(user.ID, services.ParcelOrderInput{
		CourierName:  models.CourierAmazon,
		DeliveryRoom: "B-214",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderTypeParcel, order.OrderType)
	assert.Equal(t, models.DefaultPickupLocation, order.PickupLocation)
	assert.Equal(t, 20.0, order.TotalPrice, "flat parcel service fee")

	_, err = svc.PlaceParcelOrder(user.ID, services.ParcelOrderInput{
		CourierName:  "DHL",
		DeliveryRoom: "B-214",
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.PlaceParcelOrder(user.ID, services.ParcelOrderInput{
		CourierName: models.CourierAmazon,
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "delivery room is required")
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	// Pending → Delivered skips Assigned.
	_, err = svc.UpdateStatus(order.ID, models.StatusDelivered)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	updated, err := svc.UpdateStatus(order.ID, models.StatusAssigned)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, updated.Status)

	// No moving backwards.
	_, err = svc.UpdateStatus(order.ID, models.StatusPending)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	updated, err = svc.UpdateStatus(order.ID, models.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, updated.Status)

	// Delivered is terminal.
	_, err = svc.UpdateStatus(order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = svc.UpdateStatus(order.ID, "Shipped")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = svc.UpdateStatus(9999, models.StatusAssigned)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCancelRefundsPaidOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	_, err = svc.UpdatePayment(order.ID, services.UpdatePaymentInput{
		PaymentStatus: models.PaymentPaid,
		PaymentMethod: models.MethodUPI,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(order.ID, user.ID, auth.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
}

func TestCancelOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(owner.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, other.ID, auth.RoleStudent)
	assert.ErrorIs(t, err, services.ErrForbidden)

	// Admins may cancel anyone's order.
	cancelled, err := svc.Cancel(order.ID, other.ID, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
}

func TestCancelConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(order.ID, user.ID, auth.RoleStudent)
	require.NoError(t, err)
	_, err = svc.Cancel(order.ID, user.ID, auth.RoleStudent)
	assert.ErrorIs(t, err, services.ErrAlreadyCancelled)

	delivered, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(delivered.ID, models.StatusAssigned)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(delivered.ID, models.StatusDelivered)
	require.NoError(t, err)

	_, err = svc.Cancel(delivered.ID, user.ID, auth.RoleStudent)
	assert.ErrorIs(t, err, services.ErrOrderDelivered)
}

func TestMyOrdersScoping(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ravi := seedUser(t, db, "ravi@example.com")
	priya := seedUser(t, db, "priya@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	_, err := svc.PlaceProductOrder(ravi.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)
	_, err = svc.PlaceParcelOrder(priya.ID, services.ParcelOrderInput{
		CourierName:  models.CourierFlipkart,
		DeliveryRoom: "C-101",
	})
	require.NoError(t, err)

	mine, err := svc.MyOrders(ravi.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ravi.ID, mine[0].UserID)

	all, err := svc.AllOrders()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.NotNil(t, all[0].User, "admin listing includes owner details")
}

func TestMarkPaymentByRef(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.AttachPaymentRef(order.ID, "pi_test_1"))

	marked, err := svc.MarkPaymentByRef("pi_test_1", models.PaymentPaid, "webhook")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, marked.PaymentStatus)

	// Same status again is a no-op, not an error.
	_, err = svc.MarkPaymentByRef("pi_test_1", models.PaymentPaid, "webhook")
	require.NoError(t, err)

	_, err = svc.MarkPaymentByRef("pi_unknown", models.PaymentPaid, "webhook")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestMarkPaymentByRefEmptyRef(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	user := seedUser(t, db, "ravi@example.com")
	maggi := seedProduct(t, db, "Maggi", 45)

	// An order with no payment reference yet; its payment_ref column holds
	// the empty string.
	order, err := svc.PlaceProductOrder(user.ID, services.PlaceOrderInput{
		Products: []services.OrderLine{{ProductID: maggi.ID}},
	})
	require.NoError(t, err)

	_, err = svc.MarkPaymentByRef("", models.PaymentPaid, "webhook")
	assert.ErrorIs(t, err, services.ErrNotFound,
		"the empty ref must never resolve to an unreferenced order")

	mine, err := svc.MyOrders(order.UserID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, mine[0].PaymentStatus)
}
