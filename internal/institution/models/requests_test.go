package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "mediq/pkg/domain-errors"
)

type CreateInstitutionRequestSuite struct {
	suite.Suite
}

func TestCreateInstitutionRequestSuite(t *testing.T) {
	suite.Run(t, new(CreateInstitutionRequestSuite))
}

func (s *CreateInstitutionRequestSuite) validRequest() *CreateInstitutionRequest {
	return &CreateInstitutionRequest{
		Name: "RS Harapan Bunda",
		Code: "RSHB01",
		Type: TypeHospital,
	}
}

func (s *CreateInstitutionRequestSuite) TestValidation() {
	s.Run("valid request passes", func() {
		s.NoError(s.validRequest().Validate())
	})

	s.Run("name too long rejected", func() {
		req := s.validRequest()
		req.Name = strings.Repeat("a", 201)

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "200 characters or less")
	})

	s.Run("name at max length allowed", func() {
		req := s.validRequest()
		req.Name = strings.Repeat("a", 200)
		s.NoError(req.Validate())
	})

	s.Run("name too short rejected", func() {
		req := s.validRequest()
		req.Name = "X"

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "at least 2 characters")
	})

	s.Run("code too short rejected", func() {
		req := s.validRequest()
		req.Code = "AB"

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "at least 3 characters")
	})

	s.Run("missing type rejected", func() {
		req := s.validRequest()
		req.Type = ""

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "type is required")
	})

	s.Run("unknown type rejected", func() {
		req := s.validRequest()
		req.Type = "SPACESHIP"

		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("malformed email rejected", func() {
		req := s.validRequest()
		req.Email = "not-an-email"

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "valid email")
	})

	s.Run("empty email allowed", func() {
		req := s.validRequest()
		req.Email = ""
		s.NoError(req.Validate())
	})

	s.Run("unknown status rejected", func() {
		req := s.validRequest()
		req.Status = "DORMANT"

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "status must be one of")
	})

	s.Run("nil request rejected with bad_request", func() {
		var req *CreateInstitutionRequest
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func (s *CreateInstitutionRequestSuite) TestNormalize() {
	req := &CreateInstitutionRequest{
		Name:   "  RS Harapan Bunda  ",
		Code:   " rshb01 ",
		Email:  " info@example.com ",
		Type:   "hospital",
		Status: "active",
	}
	req.Normalize()

	s.Equal("RS Harapan Bunda", req.Name)
	s.Equal("rshb01", req.Code)
	s.Equal("info@example.com", req.Email)
	s.Equal(TypeHospital, req.Type)
	s.Equal(StatusActive, req.Status)
}

type UpdateInstitutionRequestSuite struct {
	suite.Suite
}

func TestUpdateInstitutionRequestSuite(t *testing.T) {
	suite.Run(t, new(UpdateInstitutionRequestSuite))
}

func (s *UpdateInstitutionRequestSuite) TestValidation() {
	str := func(v string) *string { return &v }

	s.Run("empty update is valid", func() {
		req := &UpdateInstitutionRequest{}
		s.NoError(req.Validate())
		s.True(req.IsEmpty())
	})

	s.Run("set name is validated", func() {
		req := &UpdateInstitutionRequest{Name: str("X")}

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "at least 2 characters")
	})

	s.Run("set type is normalized and validated", func() {
		typ := InstitutionType("clinic")
		req := &UpdateInstitutionRequest{Type: &typ}

		s.NoError(req.Validate())
		s.Equal(TypeClinic, *req.Type)
	})

	s.Run("set email is validated", func() {
		req := &UpdateInstitutionRequest{Email: str("nope")}

		err := req.Validate()
		s.Require().Error(err)
		s.Contains(err.Error(), "valid email")
	})

	s.Run("IsEmpty is false once any field is set", func() {
		req := &UpdateInstitutionRequest{Phone: str("+62-21-555-0100")}
		s.NoError(req.Validate())
		s.False(req.IsEmpty())
	})
}

func TestCreateServiceRequestValidate(t *testing.T) {
	s := func(req CreateServiceRequest) error { return req.Validate() }

	if err := s(CreateServiceRequest{Name: "Radiology"}); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if err := s(CreateServiceRequest{Name: "   "}); err == nil {
		t.Fatal("blank name accepted")
	}
	if err := s(CreateServiceRequest{Name: strings.Repeat("a", 201)}); err == nil {
		t.Fatal("oversized name accepted")
	}
	if err := s(CreateServiceRequest{Name: "Radiology", Description: strings.Repeat("a", 501)}); err == nil {
		t.Fatal("oversized description accepted")
	}
}
