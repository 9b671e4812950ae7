package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "mediq/pkg/domain-errors"
)

// InstitutionType enumerates the kinds of healthcare facilities the registry
// tracks.
type InstitutionType string

const (
	TypeHospital   InstitutionType = "HOSPITAL"
	TypeClinic     InstitutionType = "CLINIC"
	TypePuskesmas  InstitutionType = "PUSKESMAS"
	TypePharmacy   InstitutionType = "PHARMACY"
	TypeLaboratory InstitutionType = "LABORATORY"
)

func (t InstitutionType) IsValid() bool {
	switch t {
	case TypeHospital, TypeClinic, TypePuskesmas, TypePharmacy, TypeLaboratory:
		return true
	}
	return false
}

// InstitutionStatus tracks the operational state of an institution.
type InstitutionStatus string

const (
	StatusActive    InstitutionStatus = "ACTIVE"
	StatusInactive  InstitutionStatus = "INACTIVE"
	StatusSuspended InstitutionStatus = "SUSPENDED"
)

func (s InstitutionStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// Institution is the aggregate root for a healthcare facility.
//
// Invariants:
//   - Name is 2–200 characters
//   - Code is 3–20 characters and unique regardless of case (store enforced)
//   - Address is at most 500 characters, Phone at most 20
//   - Status defaults to ACTIVE at creation
//   - ID and CreatedAt are immutable after construction
//
// An institution owns its medical services: deleting it cascades to every
// MedicalService referencing it. The store is the sole authority on that
// cascade and on code uniqueness.
type Institution struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Code      string            `json:"code"`
	Address   string            `json:"address,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Email     string            `json:"email,omitempty"`
	Type      InstitutionType   `json:"type"`
	Status    InstitutionStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewInstitution constructs an Institution, enforcing field invariants.
// An empty status defaults to ACTIVE.
func NewInstitution(id uuid.UUID, name, code, address, phone, email string, typ InstitutionType, status InstitutionStatus, now time.Time) (*Institution, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if len(name) < 2 || len(name) > 200 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution name must be 2 to 200 characters")
	}
	if len(code) < 3 || len(code) > 20 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution code must be 3 to 20 characters")
	}
	if len(address) > 500 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution address must be 500 characters or less")
	}
	if len(phone) > 20 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "institution phone must be 20 characters or less")
	}
	if !typ.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid institution type")
	}
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid institution status")
	}
	return &Institution{
		ID:        id,
		Name:      name,
		Code:      code,
		Address:   address,
		Phone:     phone,
		Email:     email,
		Type:      typ,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyUpdate merges a partial update into the institution. Fields absent
// from the request keep their prior values; re-applying the same update is
// idempotent apart from UpdatedAt.
func (i *Institution) ApplyUpdate(req *UpdateInstitutionRequest, now time.Time) {
	if req.Name != nil {
		i.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		i.Code = strings.TrimSpace(*req.Code)
	}
	if req.Address != nil {
		i.Address = *req.Address
	}
	if req.Phone != nil {
		i.Phone = *req.Phone
	}
	if req.Email != nil {
		i.Email = *req.Email
	}
	if req.Type != nil {
		i.Type = *req.Type
	}
	if req.Status != nil {
		i.Status = *req.Status
	}
	i.UpdatedAt = now
}
