package dto

import "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"

// UpdateAccountRequest is the body of PUT /api/users/:id
type UpdateAccountRequest struct {
	Email *string      `json:"email" binding:"omitempty,email"`
	Role  *models.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// RenameEmailRequest is the body of PUT /api/todos/updateEmail.
// Presence of OldEmail and NewEmail is checked by the handler so the
// response can name the missing fields.
type RenameEmailRequest struct {
	OldEmail string       `json:"oldEmail" binding:"omitempty,email"`
	NewEmail string       `json:"newEmail" binding:"omitempty,email"`
	NewRole  *models.Role `json:"newRole" binding:"omitempty,oneof=user admin"`
}

// RenameEmailResponse reports the outcome of a rename propagation
type RenameEmailResponse struct {
	Message      string     `json:"message"`
	UpdatedTodos int64      `json:"updatedTodos"`
	UpdatedUser  AccountDTO `json:"updatedUser"`
}

// DeleteAccountResponse reports the outcome of a cascading delete
type DeleteAccountResponse struct {
	Message      string `json:"message"`
	DeletedTodos int64  `json:"deletedTodos"`
}
