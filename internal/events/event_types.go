package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered EventType = "account_registered"
	EventLoginSucceeded    EventType = "login_succeeded"
	EventLoginFailed       EventType = "login_failed"
	EventSignupRejected    EventType = "signup_rejected"
	EventSessionRevoked    EventType = "session_revoked"
)

// AuthEventTypes lists every event the auth service emits.
func AuthEventTypes() []EventType {
	return []EventType{
		EventAccountRegistered,
		EventLoginSucceeded,
		EventLoginFailed,
		EventSignupRejected,
		EventSessionRevoked,
	}
}

// Event represents an auth event emitted by services. It never carries
// secrets or hashes.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id,omitempty"`
	Email     string      `json:"email,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, identity domain.Identity, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: identity.SubjectID,
		Email:     identity.Email,
		Role:      identity.Role,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	HouseholdID int64   `json:"household_id,omitempty"`
	Employee    bool    `json:"employee"`
	Position    *string `json:"position,omitempty"`
}

// LoginFailedPayload payload. Reason is the error code returned to the client.
type LoginFailedPayload struct {
	ClaimedRole string `json:"claimed_role"`
	Reason      string `json:"reason"`
}

// SignupRejectedPayload payload.
type SignupRejectedPayload struct {
	Reason string `json:"reason"`
}

// SessionRevokedPayload payload.
type SessionRevokedPayload struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
