package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/Muhammad-shoaib-tech-lab/todo-api/internal/errors"
)

// bindJSON binds the request body into req and answers 400 on failure.
// Field rule violations are listed in the error details.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[jsonFieldName(fe.Field())] = fieldRule(fe)
		}
		apierrors.BadRequestWithDetails(c, "Validation failed", details)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// jsonFieldName lower-cases the first letter of a Go field name, which
// matches the camelCase JSON names used by the request types.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
