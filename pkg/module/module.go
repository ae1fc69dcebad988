// Package module mounts self-contained HTTP handlers under single-level path prefixes.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/accord/pkg/middleware"
)

// ErrInvalidPrefix is returned when a module prefix is not a single "/name" segment.
var ErrInvalidPrefix = errors.New("invalid module prefix")

// Module strips its prefix from incoming requests and hands them to an
// inner handler wrapped in the module's middleware.
type Module struct {
	prefix string
	inner  http.Handler
	stack  middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module mounted at prefix, e.g. "/api".
func New(prefix string, inner http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix: prefix,
		inner:  inner,
		stack:  middleware.New(),
	}, nil
}

// Prefix returns the path segment the module is mounted at.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. It has no effect once the module has served a request.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Handler returns the inner handler wrapped with the middleware stack.
// The chain is assembled on first call and reused afterwards.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.stack.Apply(m.inner)
	})
	return m.handler
}

// Serve dispatches req to the module with the prefix removed from its path.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	rest := strings.TrimPrefix(req.URL.Path, prefix)
	if rest == "" {
		rest = "/"
	}

	u := *req.URL
	u.Path = rest
	u.RawPath = ""

	out := req.Clone(req.Context())
	out.URL = &u
	return out
}

func validatePrefix(prefix string) error {
	name, ok := strings.CutPrefix(prefix, "/")
	switch {
	case !ok:
		return fmt.Errorf("%w: %q must start with /", ErrInvalidPrefix, prefix)
	case name == "":
		return fmt.Errorf("%w: %q is empty", ErrInvalidPrefix, prefix)
	case strings.Contains(name, "/"):
		return fmt.Errorf("%w: %q must be a single path segment", ErrInvalidPrefix, prefix)
	}
	if _, err := url.PathUnescape(name); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPrefix, prefix, err)
	}
	return nil
}
