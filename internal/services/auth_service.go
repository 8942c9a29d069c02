package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmailRequired        = errors.New("email is required")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAccountNotFound      = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and identity lookup.
type AuthService struct {
	accountRepo repository.AccountRepository
	tokens      *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repository.AccountRepository, tokens *TokenService) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		tokens:      tokens,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Email    string
	Password string
	Role     models.Role
}

// Register creates a new account. Role defaults to user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	email := utils.NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.accountRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return account, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a freshly issued token and the account it identifies.
type LoginResult struct {
	Token   string
	Account *models.Account
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	account, err := s.accountRepo.FindByEmail(ctx, utils.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Account: account}, nil
}

// GetAccount retrieves an account by ID.
func (s *AuthService) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return account, nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account keeps its password and is promoted if needed. It reports whether
// anything was written.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	account, err := s.accountRepo.FindByEmail(ctx, utils.NormalizeEmail(email))
	switch {
	case err == nil:
		if account.IsAdmin() {
			return false, nil
		}
		account.Role = models.RoleAdmin
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return false, fmt.Errorf("failed to promote admin: %w", err)
		}
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		if _, err := s.Register(ctx, RegisterInput{Email: email, Password: password, Role: models.RoleAdmin}); err != nil {
			return false, fmt.Errorf("failed to create admin: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
}
