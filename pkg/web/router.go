package web

import "net/http"

// Router is a ServeMux that can render a page for GET requests no route matches.
// Other methods keep the mux's plain 404 and 405 responses.
type Router struct {
	mux      *http.ServeMux
	notFound http.HandlerFunc
}

func NewRouter() *Router {
	return &Router{mux: http.NewServeMux()}
}

// SetFallback sets the page served for unmatched GET and HEAD requests.
func (r *Router) SetFallback(handler http.HandlerFunc) {
	r.notFound = handler
}

func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func (r *Router) HandleFunc(pattern string, handler http.HandlerFunc) {
	r.mux.HandleFunc(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.notFound != nil && isPageRequest(req) {
		if _, pattern := r.mux.Handler(req); pattern == "" {
			r.notFound(w, req)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}

func isPageRequest(req *http.Request) bool {
	return req.Method == http.MethodGet || req.Method == http.MethodHead
}
