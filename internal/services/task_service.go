package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/constants"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrNotTaskOwner           = errors.New("not allowed")
	ErrDueDateInPast          = errors.New("due date cannot be in the past")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrDescriptionEmpty       = errors.New("description cannot be empty")
	ErrInvalidPriority        = errors.New("priority must be Low, Normal or High")
	ErrOwnerEmailRequired     = errors.New("owner email is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo         repository.TaskRepository
	generator        TaskGenerator
	enforceOwnership bool
	now              func() time.Time
}

// NewTaskService creates a new TaskService. generator may be nil when no AI
// backend is configured.
func NewTaskService(taskRepo repository.TaskRepository, generator TaskGenerator, enforceOwnership bool) *TaskService {
	return &TaskService{
		taskRepo:         taskRepo,
		generator:        generator,
		enforceOwnership: enforceOwnership,
		now:              time.Now,
	}
}

// EnforcesOwnership reports whether single-task writes are limited to the
// owner and admins.
func (s *TaskService) EnforcesOwnership() bool {
	return s.enforceOwnership
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Complete   *bool
	Priority   *models.Priority
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Actor       *models.Account
	OwnerEmail  string
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.Priority
	Category    string
	Location    string
	Reminder    string
	Tag         string
	AssignTo    string
}

// UpdateTaskInput represents input for updating a task. Nil fields are kept.
type UpdateTaskInput struct {
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

// CreateTask validates and stores a new task. The owner defaults to the
// actor's email; whether an account exists for it is not checked.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleEmpty
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, ErrDescriptionEmpty
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if input.DueDate.Before(s.now()) {
		return nil, ErrDueDateInPast
	}

	owner := utils.NormalizeEmail(input.OwnerEmail)
	if owner == "" && input.Actor != nil {
		owner = input.Actor.Email
	}
	if owner == "" {
		return nil, ErrOwnerEmailRequired
	}
	if s.enforceOwnership && input.Actor != nil && !input.Actor.IsAdmin() && owner != input.Actor.Email {
		return nil, ErrNotTaskOwner
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		DueDate:     input.DueDate.UTC(),
		Priority:    input.Priority,
		Category:    input.Category,
		Location:    input.Location,
		Reminder:    input.Reminder,
		Tag:         input.Tag,
		AssignTo:    utils.NormalizeEmail(input.AssignTo),
		OwnerEmail:  owner,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListForOwner returns the tasks whose owner email equals email. A blank
// email is rejected rather than treated as "all owners".
func (s *TaskService) ListForOwner(ctx context.Context, email string, input ListTasksInput) ([]models.Task, int64, error) {
	owner := utils.NormalizeEmail(email)
	if owner == "" {
		return nil, 0, ErrOwnerEmailRequired
	}
	return s.list(ctx, repository.TaskFilter{
		OwnerEmail: owner,
		Complete:   input.Complete,
		Priority:   input.Priority,
		Pagination: input.Pagination,
	})
}

// ListAll returns every task
func (s *TaskService) ListAll(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	return s.list(ctx, repository.TaskFilter{
		Complete:   input.Complete,
		Priority:   input.Priority,
		Pagination: input.Pagination,
	})
}

func (s *TaskService) list(ctx context.Context, filter repository.TaskFilter) ([]models.Task, int64, error) {
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a single task
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CanModify reports whether actor may update or delete task.
func (s *TaskService) CanModify(actor *models.Account, task *models.Task) bool {
	if !s.enforceOwnership {
		return true
	}
	return actor.IsAdmin() || actor.Email == task.OwnerEmail
}

// UpdateTask writes the provided fields to an existing task. Creation rules
// such as the due date check are not applied again.
func (s *TaskService) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*models.Task, error) {
	changes := repository.TaskChanges{
		DueDate:  input.DueDate,
		Category: input.Category,
		Location: input.Location,
		Reminder: input.Reminder,
		Tag:      input.Tag,
		Complete: input.Complete,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		changes.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, ErrDescriptionEmpty
		}
		changes.Description = &description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		changes.Priority = input.Priority
	}
	if input.AssignTo != nil {
		assignTo := utils.NormalizeEmail(*input.AssignTo)
		changes.AssignTo = &assignTo
	}

	task, err := s.taskRepo.Update(ctx, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GenerateDrafts uses AI to suggest tasks from text. Nothing is stored.
func (s *TaskService) GenerateDrafts(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	now := s.now()
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(now) {
			aiTask.DueDate = nil
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.PriorityNormal
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}
