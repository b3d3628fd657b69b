package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/config"
	"github.com/gram-panchayat/panchayat-service/internal/domain"
	"github.com/gram-panchayat/panchayat-service/internal/events"
	"github.com/gram-panchayat/panchayat-service/internal/repository"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

const (
	minPasswordLength = 8
	dobLayout         = "2006-01-02"

	msgMissingFields   = "Missing required fields"
	msgInvalidUserType = "Invalid user type"
	msgNotEmployee     = "User is not a panchayat employee"
	msgUserExists      = "User already exists"
	msgMonitorExists   = "Monitor already exists"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountResolver picks the account lookup for a claimed role.
type AccountResolver interface {
	For(role domain.Role) (repository.AccountLookup, error)
}

// AuthService coordinates signup, login and logout flows.
type AuthService struct {
	accounts    AccountResolver
	citizens    repository.CitizenRepository
	monitors    repository.MonitorRepository
	revocations repository.RevocationRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	Accounts    AccountResolver
	Citizens    repository.CitizenRepository
	Monitors    repository.MonitorRepository
	Revocations repository.RevocationRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:    deps.Accounts,
		citizens:    deps.Citizens,
		monitors:    deps.Monitors,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.Issuer),
		bcryptCost:  cfg.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// LoginInput is the credential triple presented by a client.
type LoginInput struct {
	Email    string
	Password string
	UserType string
}

// LoginResult carries the verified identity and its session token.
type LoginResult struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
}

// SignupInput describes a citizen registration.
type SignupInput struct {
	Name                     string
	Email                    string
	Password                 string
	Gender                   string
	DOB                      string
	HouseholdID              int64
	EducationalQualification string
	IsEmployee               bool
	Role                     string
}

// CreateMonitorInput describes a monitor provisioned by an admin.
type CreateMonitorInput struct {
	Name     string
	Email    string
	Password string
}

// Verify checks a secret against the account for email in the store of the
// claimed role. Unknown accounts and wrong secrets fail identically.
func (s *AuthService) Verify(ctx context.Context, email, password string, claimed domain.Role) (domain.Identity, error) {
	lookup, err := s.accounts.For(claimed)
	if err != nil {
		return domain.Identity{}, apperrors.NewValidationError(msgInvalidUserType, map[string]any{"userType": string(claimed)})
	}

	account, err := lookup.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		auth.CompareDummy(password, s.bcryptCost)
		return domain.Identity{}, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return domain.Identity{}, apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(account.SecretHash, password); err != nil {
		return domain.Identity{}, apperrors.NewInvalidCredentials()
	}

	if claimed == domain.RoleEmployee && account.Role != domain.RoleEmployee {
		return domain.Identity{}, apperrors.NewRoleMismatch(msgNotEmployee)
	}
	return account.Identity(), nil
}

// Login verifies credentials and issues a session token for the actual role.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if missing := missingFields(map[string]string{
		"email":    email,
		"password": input.Password,
		"userType": input.UserType,
	}); missing != nil {
		return nil, apperrors.NewValidationError(msgMissingFields, missing)
	}

	claimed := domain.Role(input.UserType)
	if !claimed.Valid() {
		return nil, apperrors.NewValidationError(msgInvalidUserType, map[string]any{"userType": input.UserType})
	}

	identity, err := s.Verify(ctx, email, input.Password, claimed)
	if err != nil {
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, domain.Identity{Email: email}, events.LoginFailedPayload{
			ClaimedRole: input.UserType,
			Reason:      apperrors.ToDomainError(err).Code,
		}))
		return nil, err
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, identity, nil))
	return &LoginResult{Identity: identity, Token: token, ExpiresAt: expiresAt}, nil
}

// Signup registers a citizen, and the employee association when requested.
// No session is issued; the client logs in afterwards.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (domain.Identity, error) {
	citizen, employeeRole, err := s.buildCitizen(input)
	if err != nil {
		s.rejectSignup(ctx, input.Email, err)
		return domain.Identity{}, err
	}

	if err := s.citizens.Create(ctx, citizen, employeeRole); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			err = apperrors.NewConflict(msgUserExists, nil)
		case errors.Is(err, repository.ErrUnknownHousehold):
			err = apperrors.NewValidationError("Household does not exist", map[string]any{"household_id": input.HouseholdID})
		default:
			return domain.Identity{}, apperrors.NewInternalError(err)
		}
		s.rejectSignup(ctx, citizen.Email, err)
		return domain.Identity{}, err
	}

	identity := citizen.Account().Identity()
	s.publish(ctx, events.NewEvent(events.EventAccountRegistered, identity, events.AccountRegisteredPayload{
		HouseholdID: citizen.HouseholdID,
		Employee:    citizen.IsEmployee(),
		Position:    citizen.EmployeeRole,
	}))
	return identity, nil
}

func (s *AuthService) buildCitizen(input SignupInput) (*domain.Citizen, *string, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)

	fields := map[string]string{
		"name":                      name,
		"email":                     email,
		"password":                  input.Password,
		"gender":                    strings.TrimSpace(input.Gender),
		"dob":                       strings.TrimSpace(input.DOB),
		"educational_qualification": strings.TrimSpace(input.EducationalQualification),
	}
	if input.HouseholdID == 0 {
		fields["household_id"] = ""
	}
	if missing := missingFields(fields); missing != nil {
		return nil, nil, apperrors.NewValidationError(msgMissingFields, missing)
	}

	problems := map[string]any{}
	if !emailPattern.MatchString(email) {
		problems["email"] = "invalid email format"
	}
	if len(input.Password) < minPasswordLength {
		problems["password"] = "must be at least 8 characters"
	}
	dob, err := time.Parse(dobLayout, strings.TrimSpace(input.DOB))
	if err != nil {
		problems["dob"] = "must be a date in YYYY-MM-DD format"
	}
	if input.HouseholdID < 0 {
		problems["household_id"] = "must be a positive integer"
	}
	var employeeRole *string
	if input.IsEmployee {
		position := strings.TrimSpace(input.Role)
		if position == "" {
			problems["role"] = "required when isEmployee is true"
		}
		employeeRole = &position
	}
	if len(problems) > 0 {
		return nil, nil, apperrors.NewValidationError("Validation failed", problems)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}

	return &domain.Citizen{
		Name:                     name,
		Email:                    email,
		PasswordHash:             hash,
		Gender:                   strings.TrimSpace(input.Gender),
		DOB:                      dob,
		HouseholdID:              input.HouseholdID,
		EducationalQualification: strings.TrimSpace(input.EducationalQualification),
	}, employeeRole, nil
}

func (s *AuthService) rejectSignup(ctx context.Context, email string, err error) {
	s.publish(ctx, events.NewEvent(events.EventSignupRejected, domain.Identity{Email: strings.TrimSpace(email)}, events.SignupRejectedPayload{
		Reason: apperrors.ToDomainError(err).Code,
	}))
}

// Logout denylists the token until it expires. Empty, malformed and expired
// tokens have nothing left to revoke and succeed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	if s.revocations == nil {
		return apperrors.NewInternalError(errors.New("revocation store not configured"))
	}

	expiresAt := claims.ExpiresAt.Time
	if err := s.revocations.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventSessionRevoked, claims.Identity(), events.SessionRevokedPayload{
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}))
	return nil
}

// CreateMonitor provisions a government monitor account.
func (s *AuthService) CreateMonitor(ctx context.Context, input CreateMonitorInput) (domain.Identity, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	if missing := missingFields(map[string]string{
		"name":     name,
		"email":    email,
		"password": input.Password,
	}); missing != nil {
		return domain.Identity{}, apperrors.NewValidationError(msgMissingFields, missing)
	}

	problems := map[string]any{}
	if !emailPattern.MatchString(email) {
		problems["email"] = "invalid email format"
	}
	if len(input.Password) < minPasswordLength {
		problems["password"] = "must be at least 8 characters"
	}
	if len(problems) > 0 {
		return domain.Identity{}, apperrors.NewValidationError("Validation failed", problems)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return domain.Identity{}, apperrors.NewInternalError(err)
	}

	monitor := &domain.Monitor{Name: name, Email: email, PasswordHash: hash}
	if err := s.monitors.Create(ctx, monitor); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.Identity{}, apperrors.NewConflict(msgMonitorExists, nil)
		}
		return domain.Identity{}, apperrors.NewInternalError(err)
	}

	identity := monitor.Account().Identity()
	s.publish(ctx, events.NewEvent(events.EventAccountRegistered, identity, events.AccountRegisteredPayload{}))
	return identity, nil
}

// publish never fails the calling operation; audit delivery is best effort.
func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish auth event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// missingFields returns the empty keys of fields, or nil when all are present.
func missingFields(fields map[string]string) map[string]any {
	missing := map[string]any{}
	for name, value := range fields {
		if value == "" {
			missing[name] = "required"
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing
}
