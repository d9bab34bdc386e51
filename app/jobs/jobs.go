// Package jobs holds the queued background work: receipt emails after a
// successful payment and admin alerts for new orders. Jobs carry only ids;
// everything else is reloaded when the worker runs.
package jobs

import (
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/pkg/queue"
	"gorm.io/gorm"
)

var (
	orders *repositories.OrderRepository
	users  *repositories.UserRepository
)

// Init wires the repositories and registers every job type with the queue.
// Call once at boot, after the database is connected.
func Init(db *gorm.DB) {
	orders = repositories.NewOrderRepository(db)
	users = repositories.NewUserRepository(db)

	queue.Register("jobs.ReceiptEmailJob", func() queue.Job { return &ReceiptEmailJob{} })
	queue.Register("jobs.AdminAlertJob", func() queue.Job { return &AdminAlertJob{} })
}
