package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// actingAs stands in for RequireAuth.
func actingAs(account *models.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		if account != nil {
			c.Set(constants.ContextKeyAccount, account)
		}
		c.Next()
	}
}

func performJSON(r http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		if raw, ok := payload.(string); ok {
			body.WriteString(raw)
		} else {
			json.NewEncoder(&body).Encode(payload)
		}
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
