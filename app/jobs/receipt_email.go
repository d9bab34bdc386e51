package jobs

import (
	"fmt"
	"strings"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/pkg/mail"
)

// ReceiptEmailJob mails the student a receipt once their payment lands.
type ReceiptEmailJob struct {
	OrderID uint `json:"orderId"`
}

func (j ReceiptEmailJob) Handle() error {
	order, err := orders.FindByID(j.OrderID)
	if err != nil {
		return fmt.Errorf("receipt: load order %d: %w", j.OrderID, err)
	}

	user, err := users.FindByID(order.UserID)
	if err != nil {
		return fmt.Errorf("receipt: load user %d: %w", order.UserID, err)
	}

	return mail.To(user.Email).
		Subject(fmt.Sprintf("HostelEase receipt for order #%d", order.ID)).
		Body(receiptHTML(user, order)).
		Send()
}

func receiptHTML(user *models.User, order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Thanks, %s!</h2>", user.Name)
	fmt.Fprintf(&b, "<p>Payment received for order <strong>#%d</strong> (%s).</p>",
		order.ID, order.OrderType)

	if len(order.Items) > 0 {
		b.WriteString("<ul>")
		for _, item := range order.Items {
			fmt.Fprintf(&b, "<li>%s × %d — ₹%.2f</li>",
				item.Name, item.Quantity, item.Price*float64(item.Quantity))
		}
		b.WriteString("</ul>")
	}
	if order.OrderType == models.OrderTypeCustom && order.CustomDescription != "" {
		fmt.Fprintf(&b, "<p>%s</p>", order.CustomDescription)
	}
	if order.OrderType == models.OrderTypeParcel {
		fmt.Fprintf(&b, "<p>Parcel via %s, delivery to room %s.</p>",
			order.CourierName, order.DeliveryRoom)
	}

	fmt.Fprintf(&b, "<p><strong>Total: ₹%.2f</strong></p>", order.TotalPrice)
	return b.String()
}
