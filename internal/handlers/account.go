package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/dto"
	apierrors "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/errors"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/logger"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/services"
)

// AccountHandler serves the admin account endpoints.
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAccounts returns every account.
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTOs(accounts))
}

// GetAccountByEmail looks up an account by the email query parameter.
func (h *AccountHandler) GetAccountByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apierrors.MissingField(c, "email")
		return
	}

	account, err := h.accountService.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// UpdateAccount changes email and/or role. Task references are left as is.
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("id"), services.UpdateAccountInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountDTO(*account))
}

// DeleteAccount deletes an account together with the tasks it owns.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	deleted, err := h.accountService.DeleteAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteAccountResponse{
		Message:      "User and their todos deleted",
		DeletedTodos: deleted,
	})
}

// RenameEmail moves an account to a new email and rewrites its task references.
func (h *AccountHandler) RenameEmail(c *gin.Context) {
	var req dto.RenameEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	var missing []string
	if req.OldEmail == "" {
		missing = append(missing, "oldEmail")
	}
	if req.NewEmail == "" {
		missing = append(missing, "newEmail")
	}
	if len(missing) > 0 {
		apierrors.MissingField(c, missing...)
		return
	}

	result, err := h.accountService.RenameEmailAndPropagate(c.Request.Context(), req.OldEmail, req.NewEmail, req.NewRole)
	if err != nil {
		if errors.Is(err, services.ErrPartialRename) {
			logger.FromContext(c).Error().Err(err).
				Str("old_email", req.OldEmail).
				Str("new_email", req.NewEmail).
				Msg("task references still point at the old email")
		}
		respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RenameEmailResponse{
		Message:      "Email updated successfully",
		UpdatedTodos: result.UpdatedTaskCount,
		UpdatedUser:  dto.ToAccountDTO(*result.Account),
	})
}

func respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrEmailConflict):
		apierrors.Conflict(c, "Email already in use")
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPartialRename):
		apierrors.InternalError(c, "")
	default:
		logger.FromContext(c).Error().Err(err).Msg("account request failed")
		apierrors.InternalError(c, "")
	}
}
