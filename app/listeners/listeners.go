// Package listeners connects order events to their side effects: the admin
// live feed over WebSocket and the queued jobs.
package listeners

import (
	"github.com/hostelease/hostelease/app/jobs"
	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/event"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/queue"
	"github.com/hostelease/hostelease/pkg/ws"
)

// Register wires all event listeners. Call once at boot.
func Register() {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		broadcast(services.EventOrderPlaced, order)
		dispatch(jobs.AdminAlertJob{OrderID: order.ID})
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			broadcast(services.EventOrderStatusChanged, order)
		}
	})

	event.Listen(services.EventOrderPaymentChanged, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		broadcast(services.EventOrderPaymentChanged, order)
		if order.PaymentStatus == models.PaymentPaid {
			dispatch(jobs.ReceiptEmailJob{OrderID: order.ID})
		}
	})
}

func broadcast(name string, order *models.Order) {
	ws.OrdersHub.BroadcastJSON(map[string]interface{}{
		"event": name,
		"order": order,
	})
}

func dispatch(job queue.Job) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("listeners: dispatch failed", "job", job, "error", err)
	}
}
