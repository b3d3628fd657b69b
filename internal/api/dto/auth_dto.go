package dto

import "github.com/gram-panchayat/panchayat-service/internal/domain"

// Response codes carried in AuthResponse.Code.
const (
	CodeSuccess = 0
	CodeFailure = -1
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// SignupRequest payload for citizen registration.
type SignupRequest struct {
	Name                     string `json:"name"`
	Email                    string `json:"email"`
	Password                 string `json:"password"`
	Gender                   string `json:"gender"`
	DOB                      string `json:"dob"`
	HouseholdID              int64  `json:"household_id"`
	EducationalQualification string `json:"educational_qualification"`
	IsEmployee               bool   `json:"isEmployee"`
	Role                     string `json:"role"`
}

// CreateMonitorRequest payload for provisioning a monitor.
type CreateMonitorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the non-secret profile returned to clients.
type AuthUser struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	Name     string      `json:"name,omitempty"`
	UserType domain.Role `json:"userType"`
}

// NewAuthUser builds the profile from an identity.
func NewAuthUser(identity domain.Identity) *AuthUser {
	return &AuthUser{
		ID:       identity.SubjectID,
		Email:    identity.Email,
		Name:     identity.Name,
		UserType: identity.Role,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *AuthUser      `json:"data,omitempty"`
	Token   string         `json:"token,omitempty"`
	Errors  map[string]any `json:"errors,omitempty"`
}
