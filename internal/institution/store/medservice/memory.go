package medservice

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"mediq/internal/institution/models"
	"mediq/pkg/platform/sentinel"
)

// InstitutionChecker reports whether an owning institution exists, so the
// in-memory store can mirror the foreign-key constraint of PostgreSQL.
type InstitutionChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error)
}

// InMemory keeps medical services in a map for tests and local development.
type InMemory struct {
	mu       sync.RWMutex
	services map[uuid.UUID]models.MedicalService

	// institutions is optional; when set, Create enforces the back-reference.
	institutions InstitutionChecker
}

func NewInMemory() *InMemory {
	return &InMemory{services: make(map[uuid.UUID]models.MedicalService)}
}

// BindInstitutions wires the foreign-key check. Called after both stores are
// constructed since they reference each other.
func (s *InMemory) BindInstitutions(institutions InstitutionChecker) {
	s.institutions = institutions
}

// Create inserts the service, rejecting a missing owning institution with
// ErrConflict the way a foreign-key violation would surface.
func (s *InMemory) Create(ctx context.Context, svc *models.MedicalService) error {
	if s.institutions != nil {
		if _, err := s.institutions.FindByID(ctx, svc.InstitutionID); err != nil {
			return sentinel.ErrConflict
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = *svc
	return nil
}

// ListByInstitution returns the services owned by the institution, oldest
// first. An empty slice is a valid result.
func (s *InMemory) ListByInstitution(_ context.Context, institutionID uuid.UUID) ([]models.MedicalService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.MedicalService, 0)
	for _, svc := range s.services {
		if svc.InstitutionID == institutionID {
			out = append(out, svc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// DeleteByInstitution removes every service owned by the institution. Used by
// the institution store's cascade; deleting zero rows is not an error.
func (s *InMemory) DeleteByInstitution(_ context.Context, institutionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, svc := range s.services {
		if svc.InstitutionID == institutionID {
			delete(s.services, id)
		}
	}
	return nil
}
