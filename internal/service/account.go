package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviecatalog/catalog/internal/auth"
	"github.com/moviecatalog/catalog/internal/domain"
	"github.com/moviecatalog/catalog/internal/repository"
	apperrors "github.com/moviecatalog/catalog/pkg/errors"
	"github.com/moviecatalog/catalog/pkg/tracing"
)

const tracerName = "github.com/moviecatalog/catalog/internal/service"

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AccountEventPublisher publishes account events.
type AccountEventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}

// LoginThrottle bounds failed logins per identifier. A zero MaxAttempts
// disables throttling.
type LoginThrottle struct {
	MaxAttempts int
	Window      time.Duration
}

// AccountService implements registration, login and token refresh.
type AccountService struct {
	users      repository.UserRepository
	attempts   repository.LoginAttemptStore
	jwtManager *auth.JWTManager
	events     AccountEventPublisher
	throttle   LoginThrottle
	bcryptCost int
	logger     *slog.Logger
}

// NewAccountService creates a new account service. attempts may be nil, in
// which case logins are never throttled.
func NewAccountService(
	users repository.UserRepository,
	attempts repository.LoginAttemptStore,
	jwtManager *auth.JWTManager,
	events AccountEventPublisher,
	throttle LoginThrottle,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:      users,
		attempts:   attempts,
		jwtManager: jwtManager,
		events:     events,
		throttle:   throttle,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the parameters for login. Identifier is matched against
// usernames first, then emails.
type LoginInput struct {
	Identifier string
	Password   string
}

// AdminInput describes the bootstrap administrator.
type AdminInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user with the default role and returns a token pair.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (_ *domain.User, _ *domain.TokenPair, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AccountService.Register")
	defer func() { tracing.EndSpan(span, err) }()

	user, err := s.newUser(input.Username, input.Email, input.Password, domain.RoleUser)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.events.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, tokens, nil
}

// Login verifies credentials and returns a token pair. Every credential
// mismatch yields the same error so callers cannot probe for accounts.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (_ *domain.TokenPair, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AccountService.Login")
	defer func() { tracing.EndSpan(span, err) }()

	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, apperrors.InvalidInput("email_or_username and password are required")
	}

	if s.throttled(ctx, identifier) {
		loginAttempts.WithLabelValues(resultThrottled).Inc()
		return nil, apperrors.TooManyAttempts("too many failed login attempts, try again later")
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordFailure(ctx, identifier)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.recordFailure(ctx, identifier)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		loginAttempts.WithLabelValues(resultFailure).Inc()
		return nil, domain.ErrAccountDisabled
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if s.throttling() {
		if err := s.attempts.Reset(ctx, identifier); err != nil {
			s.logger.WarnContext(ctx, "failed to reset login attempts", slog.String("error", err.Error()))
		}
	}
	loginAttempts.WithLabelValues(resultSuccess).Inc()

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return tokens, nil
}

// Refresh exchanges a refresh token for a new access token. The user is
// reloaded so a disabled account or changed role takes effect immediately.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (_ string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "AccountService.Refresh")
	defer func() { tracing.EndSpan(span, err) }()

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.Unauthorized("token is invalid or expired")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized("token is invalid or expired")
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return "", domain.ErrAccountDisabled
	}

	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return access, nil
}

// EnsureAdmin creates the administrator account, or promotes and
// reactivates an existing user with the same username.
func (s *AccountService) EnsureAdmin(ctx context.Context, input AdminInput) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		if existing.IsAdmin() && existing.IsActive {
			return existing, nil
		}
		existing.Role = domain.RoleAdmin
		existing.IsActive = true
		if err := s.users.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		s.logger.InfoContext(ctx, "existing user promoted to admin", slog.String("user_id", existing.ID))
		return existing, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("get admin: %w", err)
	}

	admin, err := s.newUser(input.Username, input.Email, input.Password, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	s.logger.InfoContext(ctx, "admin user created",
		slog.String("user_id", admin.ID),
		slog.String("username", admin.Username),
	)

	return admin, nil
}

// Authenticate validates an access token and returns the caller.
func (s *AccountService) Authenticate(token string) (domain.Principal, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.Principal{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}, nil
}

func (s *AccountService) newUser(username, email, password, role string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return &domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AccountService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	user, err = s.users.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

func (s *AccountService) issueTokens(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AccountService) throttling() bool {
	return s.attempts != nil && s.throttle.MaxAttempts > 0
}

// throttled fails open: a store error is logged and the login proceeds.
func (s *AccountService) throttled(ctx context.Context, identifier string) bool {
	if !s.throttling() {
		return false
	}
	n, err := s.attempts.Failures(ctx, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "login attempt store unavailable", slog.String("error", err.Error()))
		return false
	}
	return n >= s.throttle.MaxAttempts
}

func (s *AccountService) recordFailure(ctx context.Context, identifier string) {
	loginAttempts.WithLabelValues(resultFailure).Inc()
	if !s.throttling() {
		return
	}
	n, err := s.attempts.RecordFailure(ctx, identifier, s.throttle.Window)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record login attempt", slog.String("error", err.Error()))
		return
	}
	if n >= s.throttle.MaxAttempts {
		s.logger.WarnContext(ctx, "login throttled",
			slog.String("identifier", identifier),
			slog.Int("failures", n),
		)
	}
}
