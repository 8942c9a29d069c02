package dto

import (
	"time"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=6"`
	Role     models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token and the identity it was issued for
type LoginResponse struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// AccountDTO represents an account in API responses. It never carries
// credential material.
type AccountDTO struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToAccountDTO converts an Account model to AccountDTO
func ToAccountDTO(account models.Account) AccountDTO {
	return AccountDTO{
		ID:        account.ID,
		Email:     account.Email,
		Role:      account.Role,
		CreatedAt: account.CreatedAt,
	}
}

// ToAccountDTOs converts a slice of accounts
func ToAccountDTOs(accounts []models.Account) []AccountDTO {
	items := make([]AccountDTO, len(accounts))
	for i, account := range accounts {
		items[i] = ToAccountDTO(account)
	}
	return items
}
