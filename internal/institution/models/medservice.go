package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "mediq/pkg/domain-errors"
)

// MedicalService is a service offered by exactly one institution. It is
// destroyed automatically when its owning institution is deleted and is never
// orphaned; the store rejects creation against a missing institution.
type MedicalService struct {
	ID            uuid.UUID `json:"id"`
	InstitutionID uuid.UUID `json:"institutionId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewMedicalService constructs a MedicalService, enforcing field invariants.
func NewMedicalService(id, institutionID uuid.UUID, name, description, location string, now time.Time) (*MedicalService, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "service name cannot be empty")
	}
	if institutionID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "service requires an owning institution")
	}
	return &MedicalService{
		ID:            id,
		InstitutionID: institutionID,
		Name:          name,
		Description:   description,
		Location:      location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
