package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if r.Gatherer() == nil {
		t.Error("Gatherer() returned nil")
	}
}

func TestNewRegistry_Independent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.IncFallbacks()

	if got := testutil.ToFloat64(a.Fallbacks); got != 1 {
		t.Errorf("a.Fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.Fallbacks); got != 0 {
		t.Errorf("b.Fallbacks = %v, want 0", got)
	}
}

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.IncContentChanges()
	r.IncContentChanges()
	r.IncCertsGenerated()

	if got := testutil.ToFloat64(r.ContentChanges); got != 2 {
		t.Errorf("ContentChanges = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CertsGenerated); got != 1 {
		t.Errorf("CertsGenerated = %v, want 1", got)
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	r.IncContentChanges()
	r.IncCertsGenerated()
	r.IncFallbacks()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	if r.Instrument("http", h) == nil {
		t.Error("Instrument on nil registry should return the handler")
	}
}

func TestRegistry_Instrument(t *testing.T) {
	r := NewRegistry()

	h := r.Instrument("https", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	}

	got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("https", "404", "get"))
	if got != 3 {
		t.Errorf("RequestsTotal{https,404,get} = %v, want 3", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.IncFallbacks()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "pwapreview_https_fallbacks_total 1") {
		t.Errorf("metrics output missing fallback counter:\n%s", body)
	}
}
