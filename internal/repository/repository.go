package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEmail is returned when a write would violate the unique account email.
	ErrDuplicateEmail = errors.New("repository: email already in use")
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *models.Account) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id string) (*models.Account, error)

	// FindByEmail finds an account by its normalised email
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// List returns every account
	List(ctx context.Context) ([]models.Account, error)

	// Update saves email and role of an existing account
	Update(ctx context.Context, account *models.Account) error

	// DeleteWithTasks deletes every task owned by the account's email and
	// then the account itself. It returns the number of tasks removed.
	DeleteWithTasks(ctx context.Context, id string) (int64, error)

	// RenameEmail moves the account at oldEmail to newEmail, optionally
	// changing its role, and rewrites ownerEmail/assignTo references on tasks.
	// It returns the updated account and the number of tasks changed.
	RenameEmail(ctx context.Context, oldEmail, newEmail string, role *models.Role) (*models.Account, int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks with filtering and optional pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update writes only the non-nil fields of changes to the task and
	// returns the stored result.
	Update(ctx context.Context, id string, changes TaskChanges) (*models.Task, error)

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// OwnerEmail restricts the result to one owner; empty means all owners.
	OwnerEmail string
	Complete   *bool
	Priority   *models.Priority
	Pagination utils.PaginationParams
}

// TaskChanges is a partial task update. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.Priority
	Category    *string
	Location    *string
	Reminder    *string
	Tag         *string
	AssignTo    *string
	Complete    *bool
}

// taskChangeField pairs a changed value with its column and document key.
type taskChangeField struct {
	column string
	key    string
	value  interface{}
}

func (c TaskChanges) fields() []taskChangeField {
	var fields []taskChangeField
	text := func(column, key string, v *string) {
		if v != nil {
			fields = append(fields, taskChangeField{column: column, key: key, value: *v})
		}
	}

	text("title", "title", c.Title)
	text("description", "description", c.Description)
	if c.DueDate != nil {
		fields = append(fields, taskChangeField{column: "due_date", key: "dueDate", value: c.DueDate.UTC()})
	}
	if c.Priority != nil {
		fields = append(fields, taskChangeField{column: "priority", key: "priority", value: string(*c.Priority)})
	}
	text("category", "category", c.Category)
	text("location", "location", c.Location)
	text("reminder", "reminder", c.Reminder)
	text("tag", "tag", c.Tag)
	text("assign_to", "assignTo", c.AssignTo)
	if c.Complete != nil {
		fields = append(fields, taskChangeField{column: "complete", key: "complete", value: *c.Complete})
	}
	return fields
}
