// Package transport defines the wire DTOs for the auth endpoints.
package transport

import (
	"time"

	"hris_backend/internal/auth/repository"
	"hris_backend/internal/auth/service"
)

// UserResponse is the public shape of a provisioned user profile.
type UserResponse struct {
	ID               string  `json:"id"`
	ExternalID       string  `json:"externalId"`
	OrganizationID   string  `json:"organizationId"`
	OrganizationName string  `json:"organizationName"`
	EmployeeCode     string  `json:"employeeCode"`
	Email            string  `json:"email"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Role             string  `json:"role"`
	Status           string  `json:"status"`
	Department       *string `json:"department,omitempty"`
	Designation      *string `json:"designation,omitempty"`
}

// ExchangeResponse is returned by a successful credential exchange.
type ExchangeResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// ToUserResponse maps a repository profile to its wire shape.
func ToUserResponse(p repository.Profile) UserResponse {
	return UserResponse{
		ID:               p.UserID.String(),
		ExternalID:       p.ExternalID,
		OrganizationID:   p.OrganizationID.String(),
		OrganizationName: p.OrganizationName,
		EmployeeCode:     p.EmployeeCode,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Role:             p.RoleName,
		Status:           p.Status,
		Department:       p.Department,
		Designation:      p.Designation,
	}
}

// ToExchangeResponse maps an issued session to its wire shape.
func ToExchangeResponse(s service.Session) ExchangeResponse {
	return ExchangeResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      ToUserResponse(s.Profile),
	}
}
