package handler

import (
	"github.com/yaduvivaah/agent-portal-api/internal/model"
	"github.com/yaduvivaah/agent-portal-api/internal/usecase"
)

type beginLoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type verifyRequest struct {
	EnrollmentID string `json:"enrollment_id" validate:"required"`
	Code         string `json:"code"          validate:"required"`
}

type challengeResponse struct {
	EnrollmentID string `json:"enrollment_id"`
}

type authResponse struct {
	Token string       `json:"token"`
	Agent *model.Agent `json:"agent"`
}

type updateProfileRequest struct {
	Name         *string `json:"name"           validate:"omitempty,min=1"`
	Email        *string `json:"email"          validate:"omitempty,email"`
	DateOfBirth  *string `json:"dob"            validate:"omitempty,datetime=2006-01-02"`
	Experience   *int    `json:"experience"     validate:"omitempty,min=0,max=50"`
	Pincode      *string `json:"pincode"        validate:"omitempty,len=6,numeric"`
	AddressLine1 *string `json:"address_line_1" validate:"omitempty,min=1"`
	AddressLine2 *string `json:"address_line_2"`
}

func (r updateProfileRequest) toDraft() usecase.ProfileDraft {
	return usecase.ProfileDraft{
		Name:         r.Name,
		Email:        r.Email,
		DateOfBirth:  r.DateOfBirth,
		Experience:   r.Experience,
		Pincode:      r.Pincode,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}
