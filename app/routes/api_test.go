package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hostelease/hostelease/app/models"
	"github.com/hostelease/hostelease/app/routes"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/database"
	"github.com/hostelease/hostelease/pkg/payments"
	"github.com/hostelease/hostelease/pkg/router"
)

// fakePay is an in-memory payments.Client for the HTTP tests.
type fakePay struct {
	n       int
	intents map[string]*payments.Intent
}

func (f *fakePay) CreateIntent(ctx context.Context, p payments.CreateParams) (*payments.Intent, error) {
	if p.Amount <= 0 {
		return nil, payments.ErrInvalidAmount
	}
	f.n++
	intent := &payments.Intent{
		ID:           fmt.Sprintf("pi_%d", f.n),
		ClientSecret: fmt.Sprintf("pi_%d_secret", f.n),
		Status:       "requires_payment_method",
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}
	f.intents[intent.ID] = intent
	return intent, nil
}

func (f *fakePay) RetrieveIntent(ctx context.Context, id string) (*payments.Intent, error) {
	intent, ok := f.intents[id]
	if !ok {
		return nil, fmt.Errorf("%w: no such intent", payments.ErrProvider)
	}
	return intent, nil
}

func newAPI(t *testing.T) (*httptest.Server, *routes.Deps, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{},
	))

	deps := routes.Build(db, &fakePay{intents: map[string]*payments.Intent{}})

	r := router.New()
	routes.RegisterAPI(r, deps)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, deps, db
}

type envelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  map[string]interface{} `json:"errors"`
}

func call(t *testing.T, method, url, token string, body interface{}) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

// register creates an account over the API and returns its bearer token.
func register(t *testing.T, srv *httptest.Server, email, role string) string {
	t.Helper()

	resp, env := call(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]interface{}{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
		"phone":    "9876543210",
		"role":     role,
		"address":  "Hostel A, Room 101",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterAndLoginFlow(t *testing.T) {
	srv, _, _ := newAPI(t)

	register(t, srv, "ravi@example.com", "")

	// Duplicate email.
	resp, _ := call(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]interface{}{
		"name":     "Other",
		"email":    "ravi@example.com",
		"password": "secret123",
		"phone":    "9876543211",
		"address":  "Hostel B",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Validation errors are 400 with field messages.
	resp, env := call(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]interface{}{
		"name":     "X",
		"email":    "not-an-email",
		"password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, env.Errors)

	resp, _ = call(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "ravi@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"email": "ravi@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleGates(t *testing.T) {
	srv, _, _ := newAPI(t)

	student := register(t, srv, "student@example.com", "")
	admin := register(t, srv, "warden@example.com", "Admin")

	// No token.
	resp, _ := call(t, http.MethodGet, srv.URL+"/api/orders/all", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token.
	resp, _ = call(t, http.MethodGet, srv.URL+"/api/orders/all", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Student on an admin route.
	resp, _ = call(t, http.MethodGet, srv.URL+"/api/orders/all", student, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, http.MethodGet, srv.URL+"/api/orders/all", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Admin placing a student order is forbidden too.
	resp, _ = call(t, http.MethodPost, srv.URL+"/api/orders/place", admin, map[string]interface{}{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Catalog is readable by any authenticated role.
	resp, _ = call(t, http.MethodGet, srv.URL+"/api/products/get", student, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Admin product mutations are gated.
	resp, _ = call(t, http.MethodPost, srv.URL+"/api/products/create", student, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv, _, db := newAPI(t)

	student := register(t, srv, "student@example.com", "")
	admin := register(t, srv, "warden@example.com", "Admin")

	product := &models.Product{Name: "Maggi", Price: 45, Image: "http://x/maggi.jpg"}
	require.NoError(t, db.Create(product).Error)

	resp, env := call(t, http.MethodPost, srv.URL+"/api/orders/place", student, map[string]interface{}{
		"products":      []map[string]interface{}{{"productId": product.ID, "quantity": 2}},
		"paymentMethod": "UPI",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var placed struct {
		ID         uint    `json:"ID"`
		TotalPrice float64 `json:"totalPrice"`
		Status     string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, 90.0, placed.TotalPrice)
	assert.Equal(t, "Pending", placed.Status)

	// Owner sees it.
	resp, env = call(t, http.MethodGet, srv.URL+"/api/orders/my-orders", student, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)

	orderURL := fmt.Sprintf("%s/api/orders/update/%d", srv.URL, placed.ID)

	// Skipping Assigned is a conflict.
	resp, _ = call(t, http.MethodPut, orderURL, admin, map[string]string{"status": "Delivered"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = call(t, http.MethodPut, orderURL, admin, map[string]string{"status": "Assigned"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Students cannot drive fulfillment.
	resp, _ = call(t, http.MethodPut, orderURL, student, map[string]string{"status": "Delivered"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Owner cancels before delivery.
	resp, env = call(t, http.MethodPut,
		fmt.Sprintf("%s/api/orders/cancel/%d", srv.URL, placed.ID), student, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cancelled))
	assert.Equal(t, "Cancelled", cancelled.Status)
}

// withWebhookSecret configures a signing secret for the duration of the
// test and returns it.
func withWebhookSecret(t *testing.T) string {
	t.Helper()
	const secret = "whsec_test"
	config.Set("STRIPE_WEBHOOK_SECRET", secret)
	t.Cleanup(func() { config.Set("STRIPE_WEBHOOK_SECRET", "") })
	return secret
}

func postWebhook(t *testing.T, srv *httptest.Server, body []byte, sig string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/payments/webhook", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Stripe-Signature", sig)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestPaymentIntentAndWebhook(t *testing.T) {
	srv, deps, db := newAPI(t)
	secret := withWebhookSecret(t)

	student := register(t, srv, "student@example.com", "")

	product := &models.Product{Name: "Maggi", Price: 45, Image: "http://x/maggi.jpg"}
	require.NoError(t, db.Create(product).Error)

	resp, env := call(t, http.MethodPost, srv.URL+"/api/orders/place", student, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	resp, env = call(t, http.MethodPost, srv.URL+"/api/payments/create-payment-intent", student,
		map[string]interface{}{"amount": 45, "orderId": placed.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var intent struct {
		ClientSecret    string `json:"clientSecret"`
		PaymentIntentID string `json:"paymentIntentId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &intent))
	require.NotEmpty(t, intent.PaymentIntentID)

	// Provider notifies success.
	body := []byte(fmt.Sprintf(
		`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":%q,"status":"succeeded"}}}`,
		intent.PaymentIntentID))

	hookResp := postWebhook(t, srv, body, payments.SigHeader(body, secret, time.Now().Unix()))
	require.Equal(t, http.StatusOK, hookResp.StatusCode)

	orders, err := deps.Orders.MyOrders(1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PaymentPaid, orders[0].PaymentStatus)

	// A forged signature never reaches the handler.
	forgedResp := postWebhook(t, srv, body, payments.SigHeader(body, secret+"x", time.Now().Unix()))
	assert.Equal(t, http.StatusBadRequest, forgedResp.StatusCode)
}

func TestWebhookWithoutIntentID(t *testing.T) {
	srv, deps, db := newAPI(t)
	secret := withWebhookSecret(t)

	student := register(t, srv, "student@example.com", "")

	product := &models.Product{Name: "Maggi", Price: 45, Image: "http://x/maggi.jpg"}
	require.NoError(t, db.Create(product).Error)

	resp, _ := call(t, http.MethodPost, srv.URL+"/api/orders/place", student, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Well signed, but the object carries no intent id. It must not fall
	// through to the order that has no payment reference yet.
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"status":"succeeded"}}}`)
	hookResp := postWebhook(t, srv, body, payments.SigHeader(body, secret, time.Now().Unix()))
	assert.Equal(t, http.StatusBadRequest, hookResp.StatusCode)

	orders, err := deps.Orders.MyOrders(1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.PaymentPending, orders[0].PaymentStatus,
		"an unreferenced order must stay Pending")
}

func TestWebhookRefusedWithoutSecret(t *testing.T) {
	srv, _, _ := newAPI(t)

	// No STRIPE_WEBHOOK_SECRET deployed: an empty-key signature would
	// verify, so the endpoint must refuse outright.
	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_x","status":"succeeded"}}}`)
	resp := postWebhook(t, srv, body, payments.SigHeader(body, "", time.Now().Unix()))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPaymentIntentForeignOrder(t *testing.T) {
	srv, deps, db := newAPI(t)

	victim := register(t, srv, "student@example.com", "")
	attacker := register(t, srv, "mallory@example.com", "")

	product := &models.Product{Name: "Maggi", Price: 450, Image: "http://x/maggi.jpg"}
	require.NoError(t, db.Create(product).Error)

	resp, env := call(t, http.MethodPost, srv.URL+"/api/orders/place", victim, map[string]interface{}{
		"products": []map[string]interface{}{{"productId": product.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var placed struct {
		ID uint `json:"ID"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))

	// A stranger cannot bind an intent, cheap or otherwise, to the order.
	resp, _ = call(t, http.MethodPost, srv.URL+"/api/payments/create-payment-intent", attacker,
		map[string]interface{}{"amount": 1, "orderId": placed.ID})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	orders, err := deps.Orders.MyOrders(1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Empty(t, orders[0].PaymentRef, "the order must stay unreferenced")
}
