package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// Enabled reports whether the caller asked for a page. Lists are returned
// whole when it is false.
func (p PaginationParams) Enabled() bool {
	return p.Page > 0
}

// GetPaginationParams extracts and validates pagination parameters from the request.
// Without a page query parameter the zero value is returned.
func GetPaginationParams(c *gin.Context) PaginationParams {
	pageStr, ok := c.GetQuery("page")
	if !ok {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if page > constants.MaxPage {
		page = constants.MaxPage
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}
