package service

import (
	"context"
	"errors"
	"fmt"

	"shop_backend/internal/model"
	"shop_backend/internal/repository"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUnknownRole     = errors.New("unknown role")
)

// AccountService provides the admin account-administration surface
type AccountService interface {
	ListAccounts(ctx context.Context) ([]model.User, error)
	ChangeRole(ctx context.Context, id string, role model.Role) error
	GetAccount(ctx context.Context, id string) (*model.User, error)
}

type accountService struct {
	userRepo repository.UserRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(userRepo repository.UserRepository) AccountService {
	return &accountService{userRepo: userRepo}
}

// ListAccounts returns all accounts
func (s *accountService) ListAccounts(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return users, nil
}

// ChangeRole assigns a role from the closed set to an account. This is a
// write boundary: values outside the set are rejected, not stored.
func (s *accountService) ChangeRole(ctx context.Context, id string, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	matched, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		return fmt.Errorf("failed to change role: %w", err)
	}
	if matched == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetAccount returns one account by identifier
func (s *accountService) GetAccount(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if user == nil {
		return nil, ErrAccountNotFound
	}
	return user, nil
}
