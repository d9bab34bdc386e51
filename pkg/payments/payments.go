// Package payments talks to the card payment provider. Handlers depend on
// the Client interface so tests can inject a fake and the REST layer never
// sees provider-specific wire details.
package payments

import (
	"context"
	"errors"
)

// Intent statuses mirrored from the provider.
const (
	StatusSucceeded = "succeeded"
	StatusCanceled  = "canceled"
)

var (
	// ErrInvalidAmount rejects non-positive charge amounts before any
	// provider call is made.
	ErrInvalidAmount = errors.New("payments: amount must be greater than zero")

	// ErrProvider wraps upstream failures from the provider API.
	ErrProvider = errors.New("payments: provider request failed")
)

// Intent is the provider-side payment intent, reduced to what the app uses.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64  // minor units
	Currency     string
	Metadata     map[string]string
}

// CreateParams describes a new intent. Amount is in major currency units
// (rupees); conversion to minor units happens inside the client.
type CreateParams struct {
	Amount   float64
	Currency string
	Metadata map[string]string
}

// Client is the provider abstraction.
type Client interface {
	// CreateIntent registers a new payment intent and returns it with the
	// client secret the frontend needs to confirm the payment.
	CreateIntent(ctx context.Context, p CreateParams) (*Intent, error)

	// RetrieveIntent fetches the current state of an intent by ID.
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
