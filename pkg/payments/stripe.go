package payments

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/hostelease/hostelease/pkg/http"
)

const stripeBaseURL = "https://api.stripe.com/v1"

// StripeClient implements Client against the Stripe REST API.
type StripeClient struct {
	secretKey string
	baseURL   string
}

// NewStripeClient builds a client for the given secret key.
func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{secretKey: secretKey, baseURL: stripeBaseURL}
}

// NewStripeClientWithBaseURL targets a non-default API host, used by tests
// against a local httptest server.
func NewStripeClientWithBaseURL(secretKey, baseURL string) *StripeClient {
	return &StripeClient{secretKey: secretKey, baseURL: baseURL}
}

// intentPayload is the subset of Stripe's payment_intent object we read.
type intentPayload struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
	Error        *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *intentPayload) toIntent() *Intent {
	return &Intent{
		ID:           p.ID,
		ClientSecret: p.ClientSecret,
		Status:       p.Status,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}
}

func (c *StripeClient) CreateIntent(ctx context.Context, p CreateParams) (*Intent, error) {
	if p.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	// Stripe wants minor units (paise for INR).
	minor := int64(math.Round(p.Amount * 100))

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minor, 10))
	form.Set("currency", p.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range p.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	resp, err := http.Post(c.baseURL+"/payment_intents").
		Bearer(c.secretKey).
		Form(form).
		Timeout(15 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var payload intentPayload
	if err := resp.JSON(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if !resp.OK() {
		msg := "unexpected provider response"
		if payload.Error != nil {
			msg = payload.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
	}

	return payload.toIntent(), nil
}

func (c *StripeClient) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty intent id", ErrProvider)
	}

	resp, err := http.Get(c.baseURL+"/payment_intents/"+url.PathEscape(id)).
		Bearer(c.secretKey).
		Timeout(15 * time.Second).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var payload intentPayload
	if err := resp.JSON(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if !resp.OK() {
		msg := "unexpected provider response"
		if payload.Error != nil {
			msg = payload.Error.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
	}

	return payload.toIntent(), nil
}
