package scalar_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/accord/web/scalar"
)

func TestNewModule(t *testing.T) {
	m, err := scalar.NewModule(scalar.Config{
		BasePath: "/scalar",
		SpecURL:  "/api/openapi.json",
	})
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/scalar" {
		t.Errorf("prefix: got %s, want /scalar", m.Prefix())
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/scalar", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, `data-url="/api/openapi.json"`) {
		t.Error("page does not reference the spec URL")
	}
	if !strings.Contains(body, scalar.DefaultBundleURL) {
		t.Error("page does not load the default bundle")
	}
}

func TestNewModuleInvalidBasePath(t *testing.T) {
	if _, err := scalar.NewModule(scalar.Config{BasePath: "docs"}); err == nil {
		t.Error("expected error for base path without leading slash")
	}
}

func TestNewModuleBundleOverride(t *testing.T) {
	m, err := scalar.NewModule(scalar.Config{
		BasePath:  "/scalar",
		SpecURL:   "/api/openapi.json",
		BundleURL: "/vendor/scalar.js",
	})
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/scalar", nil))

	if !strings.Contains(rec.Body.String(), `src="/vendor/scalar.js"`) {
		t.Error("bundle override not applied")
	}
}
