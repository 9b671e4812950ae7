package models

import (
	"net/mail"
	"strings"

	dErrors "mediq/pkg/domain-errors"
)

// Request DTOs are shared by the HTTP handler and the message-queue consumer
// so both transports validate identical shapes and produce identical payloads.

type CreateInstitutionRequest struct {
	Name    string            `json:"name"`
	Code    string            `json:"code"`
	Address string            `json:"address,omitempty"`
	Phone   string            `json:"phone,omitempty"`
	Email   string            `json:"email,omitempty"`
	Type    InstitutionType   `json:"type"`
	Status  InstitutionStatus `json:"status,omitempty"`
}

func (r *CreateInstitutionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)
	r.Email = strings.TrimSpace(r.Email)
	r.Type = InstitutionType(strings.ToUpper(strings.TrimSpace(string(r.Type))))
	r.Status = InstitutionStatus(strings.ToUpper(strings.TrimSpace(string(r.Status))))
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *CreateInstitutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()

	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be 200 characters or less")
	}
	if len(r.Code) > 20 {
		return dErrors.New(dErrors.CodeValidation, "code must be 20 characters or less")
	}
	if len(r.Address) > 500 {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	if len(r.Phone) > 20 {
		return dErrors.New(dErrors.CodeValidation, "phone must be 20 characters or less")
	}

	if len(r.Name) < 2 {
		return dErrors.New(dErrors.CodeValidation, "name is required and must be at least 2 characters")
	}
	if len(r.Code) < 3 {
		return dErrors.New(dErrors.CodeValidation, "code is required and must be at least 3 characters")
	}
	if r.Type == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}

	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return dErrors.New(dErrors.CodeValidation, "email must be a valid email address")
		}
	}

	if !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be one of HOSPITAL, CLINIC, PUSKESMAS, PHARMACY, LABORATORY")
	}
	if r.Status != "" && !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of ACTIVE, INACTIVE, SUSPENDED")
	}

	return nil
}

// UpdateInstitutionRequest is a partial update: nil fields keep their prior
// values, set fields replace them. An empty request is valid and changes
// nothing.
type UpdateInstitutionRequest struct {
	Name    *string            `json:"name,omitempty"`
	Code    *string            `json:"code,omitempty"`
	Address *string            `json:"address,omitempty"`
	Phone   *string            `json:"phone,omitempty"`
	Email   *string            `json:"email,omitempty"`
	Type    *InstitutionType   `json:"type,omitempty"`
	Status  *InstitutionStatus `json:"status,omitempty"`
}

func (r *UpdateInstitutionRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		*r.Code = strings.TrimSpace(*r.Code)
	}
	if r.Email != nil {
		*r.Email = strings.TrimSpace(*r.Email)
	}
	if r.Type != nil {
		*r.Type = InstitutionType(strings.ToUpper(strings.TrimSpace(string(*r.Type))))
	}
	if r.Status != nil {
		*r.Status = InstitutionStatus(strings.ToUpper(strings.TrimSpace(string(*r.Status))))
	}
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
func (r *UpdateInstitutionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Normalize()

	if r.Name != nil && len(*r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be 200 characters or less")
	}
	if r.Code != nil && len(*r.Code) > 20 {
		return dErrors.New(dErrors.CodeValidation, "code must be 20 characters or less")
	}
	if r.Address != nil && len(*r.Address) > 500 {
		return dErrors.New(dErrors.CodeValidation, "address must be 500 characters or less")
	}
	if r.Phone != nil && len(*r.Phone) > 20 {
		return dErrors.New(dErrors.CodeValidation, "phone must be 20 characters or less")
	}

	if r.Name != nil && len(*r.Name) < 2 {
		return dErrors.New(dErrors.CodeValidation, "name must be at least 2 characters")
	}
	if r.Code != nil && len(*r.Code) < 3 {
		return dErrors.New(dErrors.CodeValidation, "code must be at least 3 characters")
	}

	if r.Email != nil && *r.Email != "" {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			return dErrors.New(dErrors.CodeValidation, "email must be a valid email address")
		}
	}

	if r.Type != nil && !r.Type.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "type must be one of HOSPITAL, CLINIC, PUSKESMAS, PHARMACY, LABORATORY")
	}
	if r.Status != nil && !r.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be one of ACTIVE, INACTIVE, SUSPENDED")
	}

	return nil
}

// IsEmpty reports whether the update carries no fields at all.
func (r *UpdateInstitutionRequest) IsEmpty() bool {
	return r.Name == nil && r.Code == nil && r.Address == nil &&
		r.Phone == nil && r.Email == nil && r.Type == nil && r.Status == nil
}

type CreateServiceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// Follows validation order: Size -> Required.
func (r *CreateServiceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	r.Name = strings.TrimSpace(r.Name)

	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be 200 characters or less")
	}
	if len(r.Description) > 500 {
		return dErrors.New(dErrors.CodeValidation, "description must be 500 characters or less")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}
