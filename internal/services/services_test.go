package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
)

type testEnv struct {
	accounts repository.AccountRepository
	tasks    repository.TaskRepository
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		accounts: repository.NewAccountRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}
}

func seedTask(t *testing.T, repo repository.TaskRepository, title, owner, assignTo string) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:       title,
		Description: "seeded",
		DueDate:     time.Now().Add(48 * time.Hour),
		Priority:    models.PriorityNormal,
		Category:    "Work",
		Location:    "Office",
		Reminder:    "1h",
		Tag:         "seed",
		AssignTo:    assignTo,
		OwnerEmail:  owner,
	}
	require.NoError(t, repo.Create(context.Background(), task))
	return task
}
