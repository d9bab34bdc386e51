package payments_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hostelease/hostelease/pkg/payments"
)

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payment_intents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_1" {
			t.Errorf("authorization = %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("amount"); got != "4550" {
			t.Errorf("amount = %q, want 4550 (minor units)", got)
		}
		if got := r.PostForm.Get("currency"); got != "inr" {
			t.Errorf("currency = %q, want inr", got)
		}
		if got := r.PostForm.Get("metadata[orderId]"); got != "12" {
			t.Errorf("metadata[orderId] = %q, want 12", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret_x","status":"requires_payment_method","amount":4550,"currency":"inr"}`))
	}))
	defer srv.Close()

	client := payments.NewStripeClientWithBaseURL("sk_test_1", srv.URL)

	intent, err := client.CreateIntent(context.Background(), payments.CreateParams{
		Amount:   45.50,
		Currency: "inr",
		Metadata: map[string]string{"orderId": "12"},
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if intent.ID != "pi_1" || intent.ClientSecret != "pi_1_secret_x" {
		t.Errorf("intent = %+v", intent)
	}
}

func TestCreateIntentRejectsNonPositiveAmount(t *testing.T) {
	client := payments.NewStripeClient("sk_test_1")

	for _, amount := range []float64{0, -10} {
		_, err := client.CreateIntent(context.Background(), payments.CreateParams{Amount: amount, Currency: "inr"})
		if !errors.Is(err, payments.ErrInvalidAmount) {
			t.Errorf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestCreateIntentProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Your card was declined.","type":"card_error"}}`))
	}))
	defer srv.Close()

	client := payments.NewStripeClientWithBaseURL("sk_test_1", srv.URL)

	_, err := client.CreateIntent(context.Background(), payments.CreateParams{Amount: 20, Currency: "inr"})
	if !errors.Is(err, payments.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestRetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payment_intents/pi_9" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_9","status":"succeeded","amount":2000,"currency":"inr"}`))
	}))
	defer srv.Close()

	client := payments.NewStripeClientWithBaseURL("sk_test_1", srv.URL)

	intent, err := client.RetrieveIntent(context.Background(), "pi_9")
	if err != nil {
		t.Fatalf("RetrieveIntent: %v", err)
	}
	if intent.Status != payments.StatusSucceeded {
		t.Errorf("status = %q, want succeeded", intent.Status)
	}
}

func TestRetrieveIntentEmptyID(t *testing.T) {
	client := payments.NewStripeClient("sk_test_1")
	if _, err := client.RetrieveIntent(context.Background(), ""); !errors.Is(err, payments.ErrProvider) {
		t.Errorf("expected ErrProvider for empty id, got %v", err)
	}
}
