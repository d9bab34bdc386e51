package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hostelease/hostelease/config"
	"github.com/hostelease/hostelease/pkg/ctx"
)

func TestParamAndParamUint(t *testing.T) {
	mux := chi.NewRouter()
	mux.Put("/orders/cancel/{orderId}", ctx.Wrap(func(c *ctx.Context) {
		if got := c.Param("orderId"); got != "42" {
			t.Errorf("Param = %q, want 42", got)
		}
		if got := c.ParamUint("orderId"); got != 42 {
			t.Errorf("ParamUint = %d, want 42", got)
		}
		c.Success(nil)
	}))

	req := httptest.NewRequest(http.MethodPut, "/orders/cancel/42", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestBindJSONValidates(t *testing.T) {
	type input struct {
		Description    string  `json:"description" validate:"required"`
		EstimatedPrice float64 `json:"estimatedPrice" validate:"required,gt=0"`
	}

	handler := ctx.Wrap(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Success(in)
	})

	// Missing fields → 400 with field errors.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Errors["description"] == "" {
		t.Error("expected a description error")
	}

	// Valid body passes through.
	req = httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"description":"2x chai","estimatedPrice":30}`))
	rec = httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
}

func TestBindJSONRejectsGarbage(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		var in map[string]any
		if !c.BindJSON(&in) {
			return
		}
		c.Success(in)
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEnvelopeHelpers(t *testing.T) {
	cases := []struct {
		name string
		fn   ctx.HandlerFunc
		want int
	}{
		{"success", func(c *ctx.Context) { c.Success("ok") }, http.StatusOK},
		{"created", func(c *ctx.Context) { c.Created("ok") }, http.StatusCreated},
		{"unauthorized", func(c *ctx.Context) { c.Unauthorized() }, http.StatusUnauthorized},
		{"forbidden", func(c *ctx.Context) { c.Forbidden() }, http.StatusForbidden},
		{"notfound", func(c *ctx.Context) { c.NotFound() }, http.StatusNotFound},
		{"conflict", func(c *ctx.Context) { c.Conflict("dup") }, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx.Wrap(tc.fn)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}

			var env struct {
				Status int `json:"status"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.Status != tc.want {
				t.Errorf("envelope status = %d, want %d", env.Status, tc.want)
			}
		})
	}
}

func TestBodyRespectsSizeCap(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "") })

	handler := ctx.Wrap(func(c *ctx.Context) {
		if _, err := c.Body(); err == nil {
			t.Error("expected an error for a body over the cap")
		}
		c.Error(http.StatusBadRequest, "body too large")
	})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 64)))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStoreSetGet(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		c.Set("user_id", uint(7))
		if got := c.GetUint("user_id"); got != 7 {
			t.Errorf("GetUint = %d, want 7", got)
		}
		if _, ok := c.Get("missing"); ok {
			t.Error("expected missing key to report !ok")
		}
		c.Success(nil)
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
