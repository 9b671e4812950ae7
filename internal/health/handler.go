package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediq/pkg/platform/httputil"
)

// Handler exposes the reporter over HTTP.
type Handler struct {
	reporter *Reporter
}

func NewHandler(reporter *Reporter) *Handler {
	return &Handler{reporter: reporter}
}

// Register mounts the info and health endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleInfo)
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleInfo(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.reporter.Info())
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.reporter.Health())
}
