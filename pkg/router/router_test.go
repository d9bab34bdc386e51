package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hostelease/hostelease/pkg/router"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/products/get", "products.index", ok)
	r.Put("/orders/cancel/{orderId}", "orders.cancel", ok)

	path, found := r.Path("products.index")
	if !found || path != "/products/get" {
		t.Errorf("Path = %q, %v", path, found)
	}

	url, err := r.URL("orders.cancel", map[string]string{"orderId": "5"})
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if url != "/orders/cancel/5" {
		t.Errorf("URL = %q", url)
	}

	if _, err := r.URL("orders.cancel", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("no.such.route", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestGroupPrefixAndMiddleware(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", tag("group"))
	api.Get("/orders/all", "orders.all", ok, tag("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(order) != 2 || order[0] != "group" || order[1] != "route" {
		t.Errorf("middleware order = %v, want [group route]", order)
	}
}

func TestNestedGroups(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	protected := api.Group("")
	protected.Get("/orders/my-orders", "orders.mine", ok)

	path, found := r.Path("orders.mine")
	if !found || path != "/api/orders/my-orders" {
		t.Errorf("nested path = %q, %v", path, found)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my-orders", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)
	r.Get("/unnamed", "", ok)

	infos := r.Routes()
	if len(infos) != 2 {
		t.Fatalf("Routes() = %d entries, want 2 (unnamed routes excluded)", len(infos))
	}
}
