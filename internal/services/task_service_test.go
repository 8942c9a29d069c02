package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/repository"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/utils"
)

var fixedNow = time.Date(2030, 1, 15, 12, 0, 0, 0, time.UTC)

type stubGenerator struct {
	tasks []GeneratedTask
	err   error
}

func (g stubGenerator) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	return g.tasks, g.err
}

func newTaskService(t *testing.T, enforce bool, generator TaskGenerator) (*TaskService, testEnv) {
	env := setupTestEnv(t)
	svc := NewTaskService(env.tasks, generator, enforce)
	svc.now = func() time.Time { return fixedNow }
	return svc, env
}

func createInput(actor *models.Account, due time.Time) CreateTaskInput {
	return CreateTaskInput{
		Actor:       actor,
		Title:       "Buy milk",
		Description: "Two litres",
		DueDate:     due,
		Priority:    models.PriorityHigh,
		Category:    "Home",
		Location:    "Store",
		Reminder:    "1h",
		Tag:         "errand",
		AssignTo:    "A@X.com",
	}
}

func TestTaskService_CreateTask_DueDateBoundary(t *testing.T) {
	svc, _ := newTaskService(t, false, nil)
	ctx := context.Background()
	actor := &models.Account{ID: "1", Email: "a@x.com", Role: models.RoleUser}

	_, err := svc.CreateTask(ctx, createInput(actor, fixedNow.Add(-time.Second)))
	assert.ErrorIs(t, err, ErrDueDateInPast)

	task, err := svc.CreateTask(ctx, createInput(actor, fixedNow))
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", task.OwnerEmail)
	assert.Equal(t, "a@x.com", task.AssignTo)
	assert.False(t, task.Complete)
	assert.NotEmpty(t, task.ID)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	svc, _ := newTaskService(t, false, nil)
	ctx := context.Background()
	actor := &models.Account{ID: "1", Email: "a@x.com", Role: models.RoleUser}

	input := createInput(actor, fixedNow.Add(time.Hour))
	input.Title = "   "
	_, err := svc.CreateTask(ctx, input)
	assert.ErrorIs(t, err, ErrTitleEmpty)

	input = createInput(actor, fixedNow.Add(time.Hour))
	input.Priority = "Urgent"
	_, err = svc.CreateTask(ctx, input)
	assert.ErrorIs(t, err, ErrInvalidPriority)

	input = createInput(nil, fixedNow.Add(time.Hour))
	_, err = svc.CreateTask(ctx, input)
	assert.ErrorIs(t, err, ErrOwnerEmailRequired)
}

func TestTaskService_CreateTask_OwnerForOthers(t *testing.T) {
	actor := &models.Account{ID: "1", Email: "a@x.com", Role: models.RoleUser}
	admin := &models.Account{ID: "2", Email: "root@x.com", Role: models.RoleAdmin}

	open, _ := newTaskService(t, false, nil)
	input := createInput(actor, fixedNow.Add(time.Hour))
	input.OwnerEmail = "B@x.com"
	task, err := open.CreateTask(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", task.OwnerEmail)

	enforced, _ := newTaskService(t, true, nil)
	_, err = enforced.CreateTask(context.Background(), input)
	assert.ErrorIs(t, err, ErrNotTaskOwner)

	input.Actor = admin
	_, err = enforced.CreateTask(context.Background(), input)
	assert.NoError(t, err)
}

func TestTaskService_ListForOwnerIsolation(t *testing.T) {
	svc, env := newTaskService(t, false, nil)
	ctx := context.Background()

	seedTask(t, env.tasks, "mine", "a@x.com", "a@x.com")
	seedTask(t, env.tasks, "theirs", "b@x.com", "a@x.com")

	tasks, total, err := svc.ListForOwner(ctx, "A@x.com", ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "mine", tasks[0].Title)

	all, _, err := svc.ListAll(ctx, ListTasksInput{Pagination: utils.PaginationParams{}})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, _, err = svc.ListForOwner(ctx, "  ", ListTasksInput{})
	assert.ErrorIs(t, err, ErrOwnerEmailRequired)
}

func TestTaskService_UpdateTask(t *testing.T) {
	svc, env := newTaskService(t, false, nil)
	ctx := context.Background()
	seeded := seedTask(t, env.tasks, "before", "a@x.com", "a@x.com")

	past := fixedNow.Add(-72 * time.Hour)
	done := true
	title := "after"
	updated, err := svc.UpdateTask(ctx, seeded.ID, UpdateTaskInput{Title: &title, DueDate: &past, Complete: &done})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.Complete)
	assert.True(t, past.Equal(updated.DueDate))
	assert.Equal(t, "seeded", updated.Description)

	stored, err := svc.GetTask(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", stored.Title)
	assert.True(t, stored.Complete)

	empty := " "
	_, err = svc.UpdateTask(ctx, seeded.ID, UpdateTaskInput{Title: &empty})
	assert.ErrorIs(t, err, ErrTitleEmpty)

	_, err = svc.UpdateTask(ctx, "missing", UpdateTaskInput{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

// racingTaskRepo runs a competing write once, right before the first read or
// write issued by the service.
type racingTaskRepo struct {
	repository.TaskRepository
	competing func()
}

func (r *racingTaskRepo) race() {
	if r.competing != nil {
		run := r.competing
		r.competing = nil
		run()
	}
}

func (r *racingTaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	r.race()
	return r.TaskRepository.FindByID(ctx, id)
}

func (r *racingTaskRepo) Update(ctx context.Context, id string, changes repository.TaskChanges) (*models.Task, error) {
	r.race()
	return r.TaskRepository.Update(ctx, id, changes)
}

func TestTaskService_UpdateTask_ConcurrentFieldsSurvive(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seeded := seedTask(t, env.tasks, "before", "a@x.com", "a@x.com")

	done := true
	repo := &racingTaskRepo{TaskRepository: env.tasks}
	repo.competing = func() {
		_, err := env.tasks.Update(ctx, seeded.ID, repository.TaskChanges{Complete: &done})
		require.NoError(t, err)
	}
	svc := NewTaskService(repo, nil, false)

	title := "Renamed"
	updated, err := svc.UpdateTask(ctx, seeded.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.Complete)

	stored, err := env.tasks.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.True(t, stored.Complete)
}

func TestTaskService_DeleteTask(t *testing.T) {
	svc, env := newTaskService(t, false, nil)
	ctx := context.Background()
	seeded := seedTask(t, env.tasks, "doomed", "a@x.com", "a@x.com")

	require.NoError(t, svc.DeleteTask(ctx, seeded.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, seeded.ID), ErrTaskNotFound)
}

func TestTaskService_CanModify(t *testing.T) {
	task := &models.Task{OwnerEmail: "a@x.com"}
	owner := &models.Account{Email: "a@x.com", Role: models.RoleUser}
	stranger := &models.Account{Email: "b@x.com", Role: models.RoleUser}
	admin := &models.Account{Email: "root@x.com", Role: models.RoleAdmin}

	open, _ := newTaskService(t, false, nil)
	assert.True(t, open.CanModify(stranger, task))

	enforced, _ := newTaskService(t, true, nil)
	assert.True(t, enforced.CanModify(owner, task))
	assert.True(t, enforced.CanModify(admin, task))
	assert.False(t, enforced.CanModify(stranger, task))
}

func TestTaskService_GenerateDrafts(t *testing.T) {
	ctx := context.Background()

	unconfigured, _ := newTaskService(t, false, nil)
	_, err := unconfigured.GenerateDrafts(ctx, "call mom")
	assert.ErrorIs(t, err, ErrAIServiceNotConfigured)

	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	svc, _ := newTaskService(t, false, stubGenerator{tasks: []GeneratedTask{
		{Title: " Call mom ", DueDate: &future, Priority: models.PriorityHigh},
		{Title: "", Description: "dropped"},
		{Title: "Pay rent", DueDate: &past, Priority: "urgent"},
	}})

	drafts, err := svc.GenerateDrafts(ctx, "call mom, pay rent")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Call mom", drafts[0].Title)
	assert.NotNil(t, drafts[0].DueDate)
	assert.Nil(t, drafts[1].DueDate)
	assert.Equal(t, models.PriorityNormal, drafts[1].Priority)

	empty, _ := newTaskService(t, false, stubGenerator{})
	_, err = empty.GenerateDrafts(ctx, "nothing")
	assert.ErrorIs(t, err, ErrAINoTasksGenerated)

	failing, _ := newTaskService(t, false, stubGenerator{err: errors.New("upstream down")})
	_, err = failing.GenerateDrafts(ctx, "anything")
	assert.EqualError(t, err, "failed to generate tasks: upstream down")
}
