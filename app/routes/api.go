// Package routes assembles repositories, services and controllers and
// mounts the REST surface under /api.
package routes

import (
	"context"

	"github.com/hostelease/hostelease/app/controllers"
	"github.com/hostelease/hostelease/app/repositories"
	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/pkg/auth"
	"github.com/hostelease/hostelease/pkg/ctx"
	"github.com/hostelease/hostelease/pkg/middleware"
	"github.com/hostelease/hostelease/pkg/payments"
	"github.com/hostelease/hostelease/pkg/rbac"
	"github.com/hostelease/hostelease/pkg/router"
	"github.com/hostelease/hostelease/pkg/ws"
	"gorm.io/gorm"
)

// Deps holds the wired service graph. The server boot keeps it around for
// the scheduler and the CLI seeders.
type Deps struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Orders   *services.OrderService
	Payments *services.PaymentService
}

// Build constructs the repository and service graph on top of db and the
// injected payment provider client.
func Build(db *gorm.DB, payClient payments.Client) *Deps {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	orderSvc := services.NewOrderService(orderRepo, productRepo)

	return &Deps{
		Auth:     services.NewAuthService(userRepo),
		Products: services.NewProductService(productRepo),
		Orders:   orderSvc,
		Payments: services.NewPaymentService(payClient, orderSvc),
	}
}

// RegisterAPI mounts every endpoint. The webhook stays outside the auth
// gate; everything else requires a bearer token, with the user re-checked
// against the store on each request.
func RegisterAPI(r *router.Router, d *Deps) {
	authCtl := controllers.NewAuthController(d.Auth)
	productCtl := controllers.NewProductController(d.Products)
	orderCtl := controllers.NewOrderController(d.Orders)
	paymentCtl := controllers.NewPaymentController(d.Payments)

	lookup := func(_ context.Context, userID uint) (auth.Role, error) {
		return d.Auth.LookupRole(userID)
	}

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(authCtl.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authCtl.Login))

	// Signed by the provider, not by a bearer token.
	api.Post("/payments/webhook", "payments.webhook", ctx.Wrap(paymentCtl.Webhook))

	protected := api.Group("", middleware.Auth(lookup))

	protected.Get("/products/get", "products.index", ctx.Wrap(productCtl.List))
	protected.Post("/products/create", "products.create", ctx.Wrap(productCtl.Create), rbac.AdminOnly())
	protected.Put("/products/update/{id}", "products.update", ctx.Wrap(productCtl.Update), rbac.AdminOnly())
	protected.Delete("/products/delete/{id}", "products.delete", ctx.Wrap(productCtl.Delete), rbac.AdminOnly())

	protected.Post("/orders/place", "orders.place", ctx.Wrap(orderCtl.Place), rbac.Require(auth.RoleStudent))
	protected.Post("/orders/custom", "orders.custom", ctx.Wrap(orderCtl.Custom), rbac.Require(auth.RoleStudent))
	protected.Post("/orders/parcel-pickup", "orders.parcel", ctx.Wrap(orderCtl.ParcelPickup), rbac.Require(auth.RoleStudent))
	protected.Get("/orders/my-orders", "orders.mine", ctx.Wrap(orderCtl.MyOrders), rbac.Require(auth.RoleStudent))
	protected.Get("/orders/all", "orders.all", ctx.Wrap(orderCtl.All), rbac.AdminOnly())
	protected.Put("/orders/update/{orderId}", "orders.update", ctx.Wrap(orderCtl.UpdateStatus), rbac.AdminOnly())
	protected.Put("/orders/payment/{orderId}", "orders.payment", ctx.Wrap(orderCtl.UpdatePayment), rbac.AdminOnly())
	protected.Put("/orders/cancel/{orderId}", "orders.cancel", ctx.Wrap(orderCtl.Cancel))

	protected.Post("/payments/create-payment-intent", "payments.intent", ctx.Wrap(paymentCtl.CreateIntent))
	protected.Post("/payments/verify", "payments.verify", ctx.Wrap(paymentCtl.Verify))

	// Live order feed for the admin dashboard.
	protected.Get("/orders/stream", "orders.stream", ctx.Wrap(func(c *ctx.Context) {
		ws.Upgrade(c.W, c.R, ws.OrdersHub)
	}), rbac.AdminOnly())

	registerGraphQL(protected, d)
}
