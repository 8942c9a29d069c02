package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
	apierrors "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/errors"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/logger"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/services"
)

// AccountResolver loads the account a token was issued for.
type AccountResolver interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}

// RequireAuth checks the bearer token and resolves the caller's account.
// The role comes from the stored account, so a demotion takes effect before
// the token expires.
func RequireAuth(tokens *services.TokenService, accounts AccountResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "Authorization header is missing")
			return
		}
		if !strings.HasPrefix(header, constants.BearerPrefix) {
			apierrors.Unauthorized(c, "Invalid token format")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix)))
		if err != nil {
			apierrors.Unauthorized(c, "Token is expired or invalid")
			return
		}

		account, err := accounts.GetAccount(c.Request.Context(), claims.AccountID)
		if err != nil {
			if errors.Is(err, services.ErrAccountNotFound) {
				apierrors.Unauthorized(c, "User no longer exists")
				return
			}
			logger.FromContext(c).Error().Err(err).Str("account_id", claims.AccountID).Msg("failed to resolve token account")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyAccountID, account.ID)
		c.Set(constants.ContextKeyAccount, account)
		c.Next()
	}
}

// GetAccount retrieves the authenticated account from context
func GetAccount(c *gin.Context) (*models.Account, bool) {
	value, exists := c.Get(constants.ContextKeyAccount)
	if !exists {
		return nil, false
	}
	account, ok := value.(*models.Account)
	return account, ok
}

// RequireAdmin rejects callers whose account is not an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := GetAccount(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}
		if !account.IsAdmin() {
			apierrors.Forbidden(c, "Access denied: Admins only")
			return
		}
		c.Next()
	}
}
