// Package controllers is the REST boundary: bind and validate the request,
// call the service, map service errors onto the HTTP taxonomy.
package controllers

import (
	"errors"
	"net/http"

	"github.com/hostelease/hostelease/app/services"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/ctx"
	"github.com/hostelease/hostelease/pkg/logger"
	"github.com/hostelease/hostelease/pkg/middleware"
	"github.com/hostelease/hostelease/pkg/payments"
)

// identity returns the authenticated caller. Routes behind the auth
// middleware always have one; the false case only fires on wiring mistakes.
func identity(c *ctx.Context) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromCtx(c.Context())
	if !ok {
		c.Unauthorized()
	}
	return id, ok
}

// handleError maps service sentinels to HTTP responses. Unexpected errors
// are logged and, outside dev, reduced to a generic 500.
func handleError(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		c.Conflict(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, payments.ErrInvalidAmount):
		c.Error(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrAlreadyCancelled),
		errors.Is(err, services.ErrOrderDelivered):
		c.Conflict(err.Error())
	case errors.Is(err, payments.ErrProvider):
		c.Error(http.StatusBadGateway, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		if config.AppEnv() == "production" {
			c.Error(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		c.Error(http.StatusInternalServerError, err.Error())
	}
}
