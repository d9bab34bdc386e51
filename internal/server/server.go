// Package server boots every subsystem and runs the HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hostelease/hostelease/app/jobs"
	"github.com/hostelease/hostelease/app/listeners"
	"github.com/hostelease/hostelease/app/routes"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/cache"
	"github.com/hostelease/hostelease/pkg/database"
	"github.com/hostelease/hostelease/pkg/event"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/metrics"
	"github.com/hostelease/hostelease/pkg/middleware"
	"github.com/hostelease/hostelease/pkg/migration"
	"github.com/hostelease/hostelease/pkg/notification"
	"github.com/hostelease/hostelease/pkg/payments"
	"github.com/hostelease/hostelease/pkg/queue"
	"github.com/hostelease/hostelease/pkg/reqid"
	"github.com/hostelease/hostelease/pkg/router"
	"github.com/hostelease/hostelease/pkg/schedule"
	"github.com/hostelease/hostelease/pkg/storage"
	"github.com/hostelease/hostelease/pkg/workerpool"
	"github.com/hostelease/hostelease/pkg/ws"
)

const queueWorkers = 5

// Start boots the application and serves HTTP until SIGINT/SIGTERM, then
// drains the server, queue workers and scheduler.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return err
	}

	// Redis is optional; without it the cache no-ops and the queue falls
	// back to the memory driver.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable", "error", err)
	}

	storage.Connect()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.UseDB(database.DB)
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	jobs.Init(database.DB)
	queue.StartWorkers(ctx, queueWorkers)

	pool := workerpool.New(50)
	event.UsePool(pool)
	listeners.Register()

	go ws.OrdersHub.Run()
	if origin := config.CORSOrigin(); origin != "" {
		ws.SetCheckOrigin(func(r *http.Request) bool {
			return r.Header.Get("Origin") == origin
		})
	}

	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))

	deps := routes.Build(database.DB, payments.NewStripeClient(config.StripeSecretKey()))

	schedule.Every(5).Minutes().
		Name("payments:reconcile").
		WithoutOverlapping().
		Run(func() { deps.Payments.Reconcile(context.Background()) })
	go schedule.Start(ctx)

	r := buildRouter(deps)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: shutdown", "error", err)
	}
	pool.Shutdown()
	return nil
}

// buildRouter assembles the global middleware stack and mounts all routes.
// Order matters: metrics outermost for accurate latency, then recovery,
// request id, logging, CORS and the rate limiter.
func buildRouter(deps *routes.Deps) *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigin())))
	r.Use(middleware.RateLimit(200, time.Minute))

	r.Handle("/metrics", metrics.Handler())

	// Product images on the local disk.
	if root := storage.LocalRoot(); root != "" {
		r.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(http.Dir(root))))
	}

	routes.RegisterAPI(r, deps)
	return r
}
