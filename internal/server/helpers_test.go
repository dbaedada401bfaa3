package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// newRouterWith mounts the routes of an existing Handlers value.
func newRouterWith(h *Handlers) http.Handler {
	r := chi.NewMux()
	mount(r, h)
	return r
}
