package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChiRouter implements [Router] on top of a [chi.Mux].
//
// Middleware must be added before any route is registered.
type ChiRouter struct {
	mux *chi.Mux
}

// NewChiRouter creates a router whose unmatched routes answer with a JSON 404.
func NewChiRouter() *ChiRouter {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return &ChiRouter{mux: mux}
}

// Use adds [Middleware] to the router's stack, applied in the order it's added.
func (r *ChiRouter) Use(middleware ...Middleware) {
	for _, m := range middleware {
		r.mux.Use(m)
	}
}

// Handle registers handler for the method and path.
func (r *ChiRouter) Handle(method, path string, handler http.Handler) {
	r.mux.Method(method, path, handler)
}

// Handler registers every route returned by [Handler.Routes].
func (r *ChiRouter) Handler(handler Handler) {
	for _, route := range handler.Routes() {
		r.mux.Method(route.Method, route.Pattern, route.Handler)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *ChiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
