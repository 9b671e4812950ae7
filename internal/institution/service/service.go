package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mediq/internal/institution/metrics"
	"mediq/internal/institution/models"
	dErrors "mediq/pkg/domain-errors"
	"mediq/pkg/platform/sentinel"
)

// InstitutionStore is the record-store contract for institutions. Absence is
// signaled with sentinel.ErrNotFound, constraint breaches with
// sentinel.ErrConflict; any other error is an infrastructure fault.
type InstitutionStore interface {
	Create(ctx context.Context, inst *models.Institution) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error)
	FindByIDWithServices(ctx context.Context, id uuid.UUID) (*models.InstitutionDetail, error)
	FindAll(ctx context.Context) ([]models.Institution, error)
	SearchByName(ctx context.Context, name string) ([]models.InstitutionDetail, error)
	Update(ctx context.Context, inst *models.Institution) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MedicalServiceStore is the record-store contract for owned services.
type MedicalServiceStore interface {
	Create(ctx context.Context, svc *models.MedicalService) error
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]models.MedicalService, error)
}

// Service owns the business rules for institutions: defaulting, existence
// checks, the one-to-many traversal to medical services, and the translation
// of store sentinels into coded domain errors. Both transport adapters call
// into this type and nothing else.
type Service struct {
	institutions InstitutionStore
	services     MedicalServiceStore
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(institutions InstitutionStore, services MedicalServiceStore, opts ...Option) *Service {
	s := &Service{institutions: institutions, services: services}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new institution. Status defaults to ACTIVE when the
// request leaves it empty; a duplicate code surfaces as CodeConflict.
func (s *Service) Create(ctx context.Context, req *models.CreateInstitutionRequest) (*models.Institution, error) {
	inst, err := models.NewInstitution(uuid.New(), req.Name, req.Code, req.Address,
		req.Phone, req.Email, req.Type, req.Status, time.Now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.institutions.Create(ctx, inst); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "institution code must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create institution")
	}

	s.log(ctx, "institution created", "institution_id", inst.ID, "code", inst.Code)
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	return inst, nil
}

// List returns every institution without the services join. Never fails on an
// empty store.
func (s *Service) List(ctx context.Context) ([]models.Institution, error) {
	out, err := s.institutions.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list institutions")
	}
	return out, nil
}

// GetDetail returns the institution joined with its services.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*models.InstitutionDetail, error) {
	start := time.Now()
	detail, err := s.institutions.FindByIDWithServices(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}
	if s.metrics != nil {
		s.metrics.ObserveGetDetail(start)
	}
	return detail, nil
}

// Update merges a partial update into the stored institution. Fields omitted
// from the request keep their prior values. A code collision with another
// record surfaces as CodeConflict, distinct from CodeNotFound.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateInstitutionRequest) (*models.Institution, error) {
	inst, err := s.institutions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load institution")
	}

	inst.ApplyUpdate(req, time.Now())

	if err := s.institutions.Update(ctx, inst); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			// Deleted between lookup and write.
			return nil, notFound(id)
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "institution code must be unique")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update institution")
		}
	}

	s.log(ctx, "institution updated", "institution_id", inst.ID)
	return inst, nil
}

// Remove deletes the institution; the store cascades to its services.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) (*models.RemoveResult, error) {
	if err := s.institutions.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, notFound(id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete institution")
	}

	s.log(ctx, "institution deleted", "institution_id", id)
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	return &models.RemoveResult{Message: "institution with id " + id.String() + " deleted"}, nil
}

// SearchByName matches a case-insensitive substring of institution names,
// returning each hit with its services. An empty result is valid.
func (s *Service) SearchByName(ctx context.Context, name string) ([]models.InstitutionDetail, error) {
	start := time.Now()
	out, err := s.institutions.SearchByName(ctx, name)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search institutions")
	}
	if s.metrics != nil {
		s.metrics.ObserveSearch(start)
	}
	return out, nil
}

// ListServices returns the services owned by an institution. It confirms the
// institution exists via the joined lookup rather than querying the service
// table directly, so a missing institution fails with CodeNotFound instead of
// returning an empty list.
func (s *Service) ListServices(ctx context.Context, id uuid.UUID) ([]models.MedicalService, error) {
	detail, err := s.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail.Services, nil
}

// CreateService registers a service under an institution. The store enforces
// the back-reference; a rejected foreign key means the institution is absent.
func (s *Service) CreateService(ctx context.Context, institutionID uuid.UUID, req *models.CreateServiceRequest) (*models.MedicalService, error) {
	svc, err := models.NewMedicalService(uuid.New(), institutionID, req.Name, req.Description, req.Location, time.Now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.services.Create(ctx, svc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// The only referential constraint is the owning institution.
			return nil, notFound(institutionID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create service")
	}

	s.log(ctx, "service created", "service_id", svc.ID, "institution_id", institutionID)
	return svc, nil
}

func (s *Service) log(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func notFound(id uuid.UUID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "institution with id %s not found", id)
}
