//go:build integration

package institution_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"mediq/internal/institution/models"
	institutionstore "mediq/internal/institution/store/institution"
	"mediq/internal/institution/store/medservice"
	"mediq/pkg/platform/sentinel"
	"mediq/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *institutionstore.Postgres
	services *medservice.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = institutionstore.NewPostgres(s.postgres.DB)
	s.services = medservice.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	// Truncate in dependency order
	err := s.postgres.TruncateTables(ctx, "medical_services", "institutions")
	s.Require().NoError(err)
}

func newTestInstitution(name, code string) *models.Institution {
	now := time.Now()
	return &models.Institution{
		ID:        uuid.New(),
		Name:      name,
		Code:      code,
		Type:      models.TypeHospital,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTestService(institutionID uuid.UUID, name string) *models.MedicalService {
	now := time.Now()
	return &models.MedicalService{
		ID:            uuid.New(),
		InstitutionID: institutionID,
		Name:          name,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TestRoundTrip verifies fields survive the insert and scan unchanged.
func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	inst := newTestInstitution("RS Harapan Bunda", "RSHB01")
	inst.Address = "Jl. Sudirman 1"
	inst.Phone = "+62-21-555-0100"
	inst.Email = "info@harapanbunda.id"

	s.Require().NoError(s.store.Create(ctx, inst))

	found, err := s.store.FindByID(ctx, inst.ID)
	s.Require().NoError(err)
	s.Equal(inst.Name, found.Name)
	s.Equal(inst.Code, found.Code)
	s.Equal(inst.Address, found.Address)
	s.Equal(inst.Phone, found.Phone)
	s.Equal(inst.Email, found.Email)
	s.Equal(inst.Type, found.Type)
	s.Equal(inst.Status, found.Status)
}

// TestConcurrentUniqueCodeViolation verifies that concurrent creation attempts
// with the same code result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentUniqueCodeViolation() {
	ctx := context.Background()
	code := "CONC01"
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			inst := newTestInstitution("Concurrent Test "+uuid.NewString(), code)
			err := s.store.Create(ctx, inst)
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should get conflict error")
}

// TestCaseInsensitiveCodeUniqueness verifies codes are unique regardless of
// case, matching the in-memory store.
func (s *PostgresStoreSuite) TestCaseInsensitiveCodeUniqueness() {
	ctx := context.Background()

	first := newTestInstitution("Upper", "CASE01")
	s.Require().NoError(s.store.Create(ctx, first))

	variants := []string{"case01", "Case01", "CASE01"}
	for _, code := range variants {
		err := s.store.Create(ctx, newTestInstitution("Variant", code))
		s.ErrorIs(err, sentinel.ErrConflict, "code %q should conflict with %q", code, first.Code)
	}
}

// TestNotFoundError verifies proper error handling for non-existent rows.
func (s *PostgresStoreSuite) TestNotFoundError() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByIDWithServices(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Update(ctx, newTestInstitution("Ghost", "GHO001"))
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Delete(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestServicesJoin verifies the joined detail lookup and the search.
func (s *PostgresStoreSuite) TestServicesJoin() {
	ctx := context.Background()
	inst := newTestInstitution("RS Harapan Bunda", "RSHB02")
	s.Require().NoError(s.store.Create(ctx, inst))
	s.Require().NoError(s.services.Create(ctx, newTestService(inst.ID, "Radiology")))
	s.Require().NoError(s.services.Create(ctx, newTestService(inst.ID, "Pharmacy")))

	detail, err := s.store.FindByIDWithServices(ctx, inst.ID)
	s.Require().NoError(err)
	s.Len(detail.Services, 2)

	out, err := s.store.SearchByName(ctx, "harapan")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(inst.ID, out[0].ID)
	s.Len(out[0].Services, 2)

	out, err = s.store.SearchByName(ctx, "nonexistent")
	s.Require().NoError(err)
	s.Empty(out)
}

// TestDeleteCascades verifies ON DELETE CASCADE removes owned services.
func (s *PostgresStoreSuite) TestDeleteCascades() {
	ctx := context.Background()
	inst := newTestInstitution("Cascade", "CSC001")
	s.Require().NoError(s.store.Create(ctx, inst))
	s.Require().NoError(s.services.Create(ctx, newTestService(inst.ID, "Laboratory")))

	s.Require().NoError(s.store.Delete(ctx, inst.ID))

	owned, err := s.services.ListByInstitution(ctx, inst.ID)
	s.Require().NoError(err)
	s.Empty(owned)
}

// TestForeignKeyEnforcement verifies a service cannot reference a missing
// institution.
func (s *PostgresStoreSuite) TestForeignKeyEnforcement() {
	ctx := context.Background()

	err := s.services.Create(ctx, newTestService(uuid.New(), "Orphan"))
	s.ErrorIs(err, sentinel.ErrConflict)
}

// TestUpdatePersistsChanges verifies last-write-wins updates.
func (s *PostgresStoreSuite) TestUpdatePersistsChanges() {
	ctx := context.Background()
	inst := newTestInstitution("Before", "UPD001")
	s.Require().NoError(s.store.Create(ctx, inst))

	inst.Name = "After"
	inst.Status = models.StatusSuspended
	inst.UpdatedAt = time.Now()
	s.Require().NoError(s.store.Update(ctx, inst))

	found, err := s.store.FindByID(ctx, inst.ID)
	s.Require().NoError(err)
	s.Equal("After", found.Name)
	s.Equal(models.StatusSuspended, found.Status)
}
