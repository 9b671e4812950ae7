package institution

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mediq/internal/institution/models"
	"mediq/pkg/platform/sentinel"
)

// ServiceLister supplies the owned services of an institution for the join
// variants. The medical-service store implements it; in PostgreSQL the join
// happens in SQL instead.
type ServiceLister interface {
	ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]models.MedicalService, error)
	DeleteByInstitution(ctx context.Context, institutionID uuid.UUID) error
}

// InMemory keeps institutions in a map for tests and local development. It
// intentionally favors clarity over performance.
type InMemory struct {
	mu           sync.RWMutex
	institutions map[uuid.UUID]models.Institution
	services     ServiceLister
}

// NewInMemory constructs an empty store. The service lister backs the join
// lookups and the cascade on delete.
func NewInMemory(services ServiceLister) *InMemory {
	return &InMemory{
		institutions: make(map[uuid.UUID]models.Institution),
		services:     services,
	}
}

// Create inserts the institution, rejecting duplicate codes with ErrConflict.
func (s *InMemory) Create(_ context.Context, inst *models.Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.institutions {
		if strings.EqualFold(existing.Code, inst.Code) {
			return sentinel.ErrConflict
		}
	}
	s.institutions[inst.ID] = *inst
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inst, ok := s.institutions[id]; ok {
		return &inst, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByIDWithServices returns the institution joined with its services.
func (s *InMemory) FindByIDWithServices(ctx context.Context, id uuid.UUID) (*models.InstitutionDetail, error) {
	inst, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := s.services.ListByInstitution(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.InstitutionDetail{Institution: *inst, Services: services}, nil
}

// FindAll lists every institution without the services join. Ordered by
// creation time for stable listings.
func (s *InMemory) FindAll(_ context.Context) ([]models.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Institution, 0, len(s.institutions))
	for _, inst := range s.institutions {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// SearchByName matches a case-insensitive substring of the name, joining each
// hit with its services. An empty result is valid, not an error.
func (s *InMemory) SearchByName(ctx context.Context, name string) ([]models.InstitutionDetail, error) {
	s.mu.RLock()
	matched := make([]models.Institution, 0)
	for _, inst := range s.institutions {
		if strings.Contains(strings.ToLower(inst.Name), strings.ToLower(name)) {
			matched = append(matched, inst)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	out := make([]models.InstitutionDetail, 0, len(matched))
	for _, inst := range matched {
		services, err := s.services.ListByInstitution(ctx, inst.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.InstitutionDetail{Institution: inst, Services: services})
	}
	return out, nil
}

// Update replaces the stored record, rejecting a missing id with ErrNotFound
// and a code collision with another record with ErrConflict.
func (s *InMemory) Update(_ context.Context, inst *models.Institution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.institutions[inst.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for id, existing := range s.institutions {
		if id != inst.ID && strings.EqualFold(existing.Code, inst.Code) {
			return sentinel.ErrConflict
		}
	}
	s.institutions[inst.ID] = *inst
	return nil
}

// Delete removes the institution and cascades to its services, mirroring the
// ON DELETE CASCADE constraint of the PostgreSQL store.
func (s *InMemory) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if _, ok := s.institutions[id]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.institutions, id)
	s.mu.Unlock()

	return s.services.DeleteByInstitution(ctx, id)
}
