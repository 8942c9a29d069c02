package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

var (
	ErrEmailConflict = errors.New("email already in use")
	// ErrPartialRename means the account moved to the new email but some of
	// its tasks still reference the old one.
	ErrPartialRename = errors.New("account renamed but tasks not updated")
)

// AccountService handles admin account management
type AccountService struct {
	accountRepo repository.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// ListAccounts returns every account
func (s *AccountService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return accounts, nil
}

// GetByEmail returns the account registered under email
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	account, err := s.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return account, nil
}

// UpdateAccountInput represents input for updating an account
type UpdateAccountInput struct {
	Email *string
	Role  *models.Role
}

// UpdateAccount changes email and/or role. Tasks are not touched; use
// RenameEmailAndPropagate to move task references along with the email.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != account.Email {
			if err := s.ensureEmailFree(ctx, email, account.ID); err != nil {
				return nil, err
			}
			account.Email = email
		}
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		account.Role = *input.Role
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailConflict
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return account, nil
}

// RenameResult is the outcome of a rename propagation
type RenameResult struct {
	Account          *models.Account
	UpdatedTaskCount int64
}

// RenameEmailAndPropagate moves the account at oldEmail to newEmail and
// rewrites every task that references oldEmail as owner or delegate.
func (s *AccountService) RenameEmailAndPropagate(ctx context.Context, oldEmail, newEmail string, role *models.Role) (*RenameResult, error) {
	oldEmail = utils.NormalizeEmail(oldEmail)
	newEmail = utils.NormalizeEmail(newEmail)
	if oldEmail == "" || newEmail == "" {
		return nil, ErrEmailRequired
	}
	if role != nil && !role.Valid() {
		return nil, ErrInvalidRole
	}

	account, err := s.accountRepo.FindByEmail(ctx, oldEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if newEmail != oldEmail {
		if err := s.ensureEmailFree(ctx, newEmail, account.ID); err != nil {
			return nil, err
		}
	}

	renamed, updated, err := s.accountRepo.RenameEmail(ctx, oldEmail, newEmail, role)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailConflict
		case errors.Is(err, repository.ErrPartialRename):
			return nil, fmt.Errorf("%w: %s -> %s: %v", ErrPartialRename, oldEmail, newEmail, err)
		default:
			return nil, fmt.Errorf("failed to rename user: %w", err)
		}
	}

	return &RenameResult{Account: renamed, UpdatedTaskCount: updated}, nil
}

// DeleteAccount deletes an account and every task it owns. It returns the
// number of tasks removed.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) (int64, error) {
	deleted, err := s.accountRepo.DeleteWithTasks(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrAccountNotFound
		}
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleted, nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.ID != ownerID {
			return ErrEmailConflict
		}
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}
