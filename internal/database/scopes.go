package database

import (
	"gorm.io/gorm"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

// Paginate applies pagination to a GORM query. Disabled params leave the
// query untouched.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !params.Enabled() {
			return db
		}
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
