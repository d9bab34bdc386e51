package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/payments"
)

// PaymentService bridges orders to the external card payment provider.
// The provider client is injected so tests can swap in a fake.
type PaymentService struct {
	client payments.Client
	orders *OrderService
}

func NewPaymentService(client payments.Client, orders *OrderService) *PaymentService {
	return &PaymentService{client: client, orders: orders}
}

// CreateIntent mints a provider payment intent and tags it with the
// caller and, when known, the order. An order-bound intent is always
// charged the order's stored total, never the amount the client claims,
// and only the order's owner may bind one. The intent id is stored on
// the order so webhook events can resolve it later.
func (s *PaymentService) CreateIntent(ctx context.Context, userID uint, amount float64, orderID uint) (*payments.Intent, error) {
	metadata := map[string]string{
		"userId": strconv.FormatUint(uint64(userID), 10),
	}
	if orderID != 0 {
		order, err := s.orders.find(orderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != userID {
			return nil, ErrForbidden
		}
		amount = order.TotalPrice
		metadata["orderId"] = strconv.FormatUint(uint64(orderID), 10)
	}
	if amount <= 0 {
		return nil, payments.ErrInvalidAmount
	}

	intent, err := s.client.CreateIntent(ctx, payments.CreateParams{
		Amount:   amount,
		Currency: config.Currency(),
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	if orderID != 0 {
		if err := s.orders.AttachPaymentRef(orderID, intent.ID); err != nil {
			logger.Warn("payments: could not attach intent to order",
				"order_id", orderID, "intent", intent.ID, "error", err)
		}
	}

	logger.Info("payments: intent created", "intent", intent.ID, "amount", amount)
	return intent, nil
}

// VerifyResult reports the provider's view of an intent.
type VerifyResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// Verify fetches the intent's current status. Success only for
// "succeeded"; any other provider status is reported verbatim, not as an
// error. A succeeded intent marks its order Paid.
func (s *PaymentService) Verify(ctx context.Context, intentID string) (VerifyResult, error) {
	intent, err := s.client.RetrieveIntent(ctx, intentID)
	if err != nil {
		return VerifyResult{}, err
	}

	if intent.Status != payments.StatusSucceeded {
		return VerifyResult{Success: false, Status: intent.Status}, nil
	}

	if _, err := s.orders.MarkPaymentByRef(intent.ID, models.PaymentPaid, "verify"); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return VerifyResult{}, err
		}
		// Intent not tied to an order; nothing to persist.
	}
	return VerifyResult{Success: true, Status: intent.Status}, nil
}

// HandleEvent applies a verified webhook event. Succeeded/failed intents
// persist the matching payment status; any other event type is logged and
// acknowledged so the provider stops retrying.
func (s *PaymentService) HandleEvent(ev *payments.Event) error {
	var status models.PaymentStatus
	switch ev.Type {
	case payments.EventIntentSucceeded:
		status = models.PaymentPaid
	case payments.EventIntentFailed:
		status = models.PaymentFailed
	default:
		logger.Info("payments: unhandled webhook event", "type", ev.Type, "event_id", ev.ID)
		return nil
	}

	intent, err := ev.Intent()
	if err != nil {
		return fmt.Errorf("payments: decode webhook intent: %w", err)
	}
	if intent.ID == "" {
		// An empty id must never reach the ref lookup: it would match an
		// order whose payment_ref is still unset.
		return fmt.Errorf("%w: webhook intent has no id", ErrInvalidInput)
	}

	if _, err := s.orders.MarkPaymentByRef(intent.ID, status, "webhook"); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Warn("payments: webhook intent has no order", "intent", intent.ID)
			return nil
		}
		return err
	}
	return nil
}

// Reconcile re-verifies orders that hold a payment reference but are still
// payment-Pending. The scheduler runs it periodically to catch webhooks
// that never arrived.
func (s *PaymentService) Reconcile(ctx context.Context) {
	orders, err := s.orders.orders.PendingPaymentsWithRef(50)
	if err != nil {
		logger.Error("payments: reconcile query failed", "error", err)
		return
	}

	for _, order := range orders {
		if _, err := s.Verify(ctx, order.PaymentRef); err != nil {
			logger.Warn("payments: reconcile verify failed",
				"order_id", order.ID, "intent", order.PaymentRef, "error", err)
		}
	}

	if len(orders) > 0 {
		logger.Info("payments: reconcile sweep done", "checked", len(orders))
	}
}
