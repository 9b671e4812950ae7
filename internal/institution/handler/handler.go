package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"mediq/internal/institution/models"
	dErrors "mediq/pkg/domain-errors"
	"mediq/pkg/platform/httputil"
)

// Service defines the interface for institution operations.
type Service interface {
	Create(ctx context.Context, req *models.CreateInstitutionRequest) (*models.Institution, error)
	List(ctx context.Context) ([]models.Institution, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.InstitutionDetail, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateInstitutionRequest) (*models.Institution, error)
	Remove(ctx context.Context, id uuid.UUID) (*models.RemoveResult, error)
	SearchByName(ctx context.Context, name string) ([]models.InstitutionDetail, error)
	ListServices(ctx context.Context, id uuid.UUID) ([]models.MedicalService, error)
	CreateService(ctx context.Context, institutionID uuid.UUID, req *models.CreateServiceRequest) (*models.MedicalService, error)
}

// Handler wires institution endpoints to the domain service. It is a pure
// addressing and encoding layer: every behavior lives in the service, and the
// message-queue consumer produces the same payloads from the same calls.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an HTTP handler for institution routes.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts institution endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/institutions", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGetDetail)
		r.Patch("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleRemove)
		r.Get("/{id}/services", h.handleListServices)
		r.Post("/{id}/services", h.handleCreateService)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateInstitutionRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}

	inst, err := h.service.Create(ctx, req)
	if err != nil {
		h.logError(ctx, "failed to create institution", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inst)
}

// handleList returns all institutions, or a case-insensitive name search when
// the name query parameter is present.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	if name := r.URL.Query().Get("name"); name != "" {
		out, err := h.service.SearchByName(ctx, name)
		if err != nil {
			h.logError(ctx, "failed to search institutions", requestID, err)
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, out)
		return
	}

	out, err := h.service.List(ctx)
	if err != nil {
		h.logError(ctx, "failed to list institutions", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(ctx, id)
	if err != nil {
		h.logError(ctx, "failed to load institution", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.UpdateInstitutionRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}

	inst, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.logError(ctx, "failed to update institution", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inst)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Remove(ctx, id); err != nil {
		h.logError(ctx, "failed to delete institution", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListServices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListServices(ctx, id)
	if err != nil {
		h.logError(ctx, "failed to list institution services", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, services)
}

func (h *Handler) handleCreateService(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CreateServiceRequest](ctx, w, r, h.logger, requestID)
	if !ok {
		return
	}

	svc, err := h.service.CreateService(ctx, id, req)
	if err != nil {
		h.logError(ctx, "failed to create service", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, svc)
}

// pathID parses the {id} path parameter, writing a validation error for
// malformed ids so they are rejected before the domain service runs.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "id must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) logError(ctx context.Context, msg, requestID string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err.Error())
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err.Error())
}
