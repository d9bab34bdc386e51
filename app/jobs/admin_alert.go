package jobs

import (
	"fmt"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/pkg/notification"
)

// AdminAlertJob pings the hostel admins when a new order arrives.
type AdminAlertJob struct {
	OrderID uint `json:"orderId"`
}

func (j AdminAlertJob) Handle() error {
	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("admin alert: load order %d: %w", j.OrderID, err)
	}

	user, err := users.FindByID(order.UserID)
	if err != nil {
		return fmt.Errorf("admin alert: load user %d: %w", order.UserID, err)
	}

	errs := notification.Send("", &newOrderNotification{order: order, user: user})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// newOrderNotification goes out over Slack only; there is no admin mailbox.
type newOrderNotification struct {
	order *models.Order
	user  *models.User
}

func (n *newOrderNotification) Via() []string { return []string{"slack"} }

func (n *newOrderNotification) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("New %s order #%d from %s", n.order.OrderType, n.order.ID, n.user.Name),
		Attachments: []notification.SlackAttachment{{
			Color: "good",
			Title: fmt.Sprintf("Total ₹%.2f", n.order.TotalPrice),
			Text:  n.order.SpecialInstructions,
		}},
	}
}
