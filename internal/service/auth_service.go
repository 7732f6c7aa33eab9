package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shop_backend/internal/model"
	"shop_backend/internal/repository"
	"shop_backend/internal/utils"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password, and (on
	// the admin flow) insufficient role alike, so a caller cannot tell
	// which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")

	ErrUnauthenticated  = errors.New("no session token presented")
	ErrInvalidToken     = errors.New("invalid or expired session token")
	ErrPrivilegeRevoked = errors.New("session privilege no longer granted")
	ErrSubjectNotFound  = errors.New("session subject no longer exists")
)

// MinPasswordLength is enforced before any store access.
const MinPasswordLength = 8

// RegisterInput carries a registration request
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService provides authentication and session services
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string, privileged bool) (*model.User, string, error)
	Authenticate(tokenString string) (*utils.JWTClaims, error)
	VerifyPrivileged(ctx context.Context, claims *utils.JWTClaims) (*model.User, error)
	Subject(ctx context.Context, claims *utils.JWTClaims) (*model.User, error)
	Refresh(ctx context.Context, claims *utils.JWTClaims) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Register creates a new user account and issues an ordinary session token
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", ErrValidation)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleUser, // Registration never assigns anything else
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Concurrent registration beat the uniqueness pre-check.
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, string(user.Role), false)
	if err != nil {
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a session token. With privileged
// set, the account must additionally hold an admin-level role; any failure
// is reported as ErrInvalidCredentials so that the response does not reveal
// whether the account exists.
func (s *authService) Login(ctx context.Context, email, password string, privileged bool) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	if privileged && !user.Role.Privileged() {
		return nil, "", ErrInvalidCredentials // Insufficient role, reported identically
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, string(user.Role), privileged)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Authenticate validates a raw token string and returns its claims
func (s *authService) Authenticate(tokenString string) (*utils.JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyPrivileged re-reads the subject from the store and re-checks that it
// still holds an admin-level role. Token claims may be stale: a role revoked
// after the token was minted must be detected here, at validation time.
func (s *authService) VerifyPrivileged(ctx context.Context, claims *utils.JWTClaims) (*model.User, error) {
	user, err := s.resolveSubject(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.Role.Privileged() {
		return nil, ErrPrivilegeRevoked
	}
	return user, nil
}

// Subject resolves the claim's subject to its current store record
func (s *authService) Subject(ctx context.Context, claims *utils.JWTClaims) (*model.User, error) {
	return s.resolveSubject(ctx, claims)
}

// Refresh re-reads the subject and mints a fresh 7-day ordinary token
// carrying the store's current role rather than the old claim's.
func (s *authService) Refresh(ctx context.Context, claims *utils.JWTClaims) (*model.User, string, error) {
	user, err := s.resolveSubject(ctx, claims)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email, string(user.Role), false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// resolveSubject looks the claim's subject up by identifier, falling back to
// the email claim when the identifier no longer resolves.
func (s *authService) resolveSubject(ctx context.Context, claims *utils.JWTClaims) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil && claims.Email != "" {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(claims.Email))
		if err != nil {
			return nil, fmt.Errorf("error finding user by email: %w", err)
		}
	}
	if user == nil {
		return nil, ErrSubjectNotFound
	}
	return user, nil
}
