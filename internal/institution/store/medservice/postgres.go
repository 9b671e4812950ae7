package medservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"mediq/internal/institution/models"
	"mediq/pkg/platform/sentinel"
)

// Postgres persists medical services in PostgreSQL. The foreign key to
// institutions enforces the no-orphan invariant; a violation surfaces as
// ErrConflict.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, svc *models.MedicalService) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medical_services (id, institution_id, name, description, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		svc.ID, svc.InstitutionID, svc.Name, svc.Description, svc.Location,
		svc.CreatedAt, svc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (s *Postgres) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]models.MedicalService, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, institution_id, name, description, location, created_at, updated_at
		FROM medical_services WHERE institution_id = $1 ORDER BY created_at`, institutionID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	out := make([]models.MedicalService, 0)
	for rows.Next() {
		var svc models.MedicalService
		if err := rows.Scan(&svc.ID, &svc.InstitutionID, &svc.Name, &svc.Description,
			&svc.Location, &svc.CreatedAt, &svc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

// DeleteByInstitution exists for parity with the in-memory store; in
// PostgreSQL the cascade constraint already covers institution deletion.
func (s *Postgres) DeleteByInstitution(ctx context.Context, institutionID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM medical_services WHERE institution_id = $1`, institutionID); err != nil {
		return fmt.Errorf("delete services: %w", err)
	}
	return nil
}
