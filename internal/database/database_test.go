package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

func TestMigrateAndPaginate(t *testing.T) {
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.True(t, db.Migrator().HasTable(&models.Account{}))
	require.True(t, db.Migrator().HasTable(&models.Task{}))

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Task{
			Title:       "task",
			Description: "desc",
			DueDate:     time.Now().Add(time.Hour),
			Priority:    models.PriorityLow,
			OwnerEmail:  "a@x.com",
		}).Error)
	}

	var page []models.Task
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Find(&page).Error)
	require.Len(t, page, 2)

	var all []models.Task
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{})).Find(&all).Error)
	require.Len(t, all, 5)
}
