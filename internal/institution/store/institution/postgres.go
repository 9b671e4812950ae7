package institution

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

// Postgres persists institutions in PostgreSQL. Absence is signaled precisely
// (sql.ErrNoRows, zero rows affected) so the service layer never mistakes an
// infrastructure fault for a missing record.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const institutionColumns = "id, name, code, address, phone, email, type, status, created_at, updated_at"

func (s *Postgres) Create(ctx context.Context, inst *models.Institution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO institutions (`+institutionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inst.ID, inst.Name, inst.Code, inst.Address, inst.Phone, inst.Email,
		inst.Type, inst.Status, inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert institution: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Institution, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id)
	inst, err := scanInstitution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find institution: %w", err)
	}
	return inst, nil
}

// FindByIDWithServices loads the institution and its services in one round
// trip per relation. Returns ErrNotFound only when the institution row itself
// is absent; an institution with zero services is a valid result.
func (s *Postgres) FindByIDWithServices(ctx context.Context, id uuid.UUID) (*models.InstitutionDetail, error) {
	inst, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	services, err := s.listServices(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.InstitutionDetail{Institution: *inst, Services: services}, nil
}

func (s *Postgres) FindAll(ctx context.Context) ([]models.Institution, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+institutionColumns+` FROM institutions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Institution, 0)
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		out = append(out, *inst)
	}
	return out, rows.Err()
}

func (s *Postgres) SearchByName(ctx context.Context, name string) ([]models.InstitutionDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+institutionColumns+` FROM institutions
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at`, name)
	if err != nil {
		return nil, fmt.Errorf("search institutions: %w", err)
	}
	defer rows.Close()

	matched := make([]models.Institution, 0)
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		matched = append(matched, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.InstitutionDetail, 0, len(matched))
	for _, inst := range matched {
		services, err := s.listServices(ctx, inst.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.InstitutionDetail{Institution: inst, Services: services})
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, inst *models.Institution) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE institutions
		SET name = $2, code = $3, address = $4, phone = $5, email = $6,
		    type = $7, status = $8, updated_at = $9
		WHERE id = $1`,
		inst.ID, inst.Name, inst.Code, inst.Address, inst.Phone, inst.Email,
		inst.Type, inst.Status, inst.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update institution: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update institution: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the institution; owned services go with it via the
// ON DELETE CASCADE constraint.
func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) listServices(ctx context.Context, institutionID uuid.UUID) ([]models.MedicalService, error) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstitution(row rowScanner) (*models.Institution, error) {
	var inst models.Institution
	err := row.Scan(&inst.ID, &inst.Name, &inst.Code, &inst.Address, &inst.Phone,
		&inst.Email, &inst.Type, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
