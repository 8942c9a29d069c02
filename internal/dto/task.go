package dto

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

const dateLayout = "2006-01-02"

// Date accepts either an RFC3339 timestamp or a plain YYYY-MM-DD date.
// A plain date is due at the last second of that day, UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(data, `"`))

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected RFC3339 or %s", raw, dateLayout)
	}
	d.Time = t.Add(24*time.Hour - time.Second)
	return nil
}

// CreateTaskRequest is the body of POST /api/todos
type CreateTaskRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=25"`
	Description string          `json:"description" binding:"required,min=3,max=35"`
	DueDate     *Date           `json:"dueDate" binding:"required"`
	Priority    models.Priority `json:"priority" binding:"required,oneof=Low Normal High"`
	Category    string          `json:"category" binding:"required"`
	Location    string          `json:"location" binding:"required"`
	Reminder    string          `json:"reminder" binding:"required"`
	Tag         string          `json:"tag" binding:"required"`
	AssignTo    string          `json:"assignTo" binding:"required"`
	OwnerEmail  string          `json:"ownerEmail" binding:"omitempty,email"`
	// UserEmail is the owner field name used by older clients.
	UserEmail string `json:"userEmail" binding:"omitempty,email"`
}

// Owner returns the requested owner email, if any
func (r CreateTaskRequest) Owner() string {
	if r.OwnerEmail != "" {
		return r.OwnerEmail
	}
	return r.UserEmail
}

// UpdateTaskRequest is the body of PUT /api/todos/:id. Absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	DueDate     *Date            `json:"dueDate"`
	Priority    *models.Priority `json:"priority" binding:"omitempty,oneof=Low Normal High"`
	Category    *string          `json:"category"`
	Location    *string          `json:"location"`
	Reminder    *string          `json:"reminder"`
	Tag         *string          `json:"tag"`
	AssignTo    *string          `json:"assignTo"`
	Complete    *bool            `json:"complete"`
}

// GenerateTasksRequest is the body of POST /api/todos/generate
type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// TaskDraftDTO is an unsaved task suggested from free text
type TaskDraftDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *time.Time      `json:"dueDate"`
	Priority    models.Priority `json:"priority"`
	Category    string          `json:"category,omitempty"`
}

// GenerateTasksResponse wraps the drafts returned by the AI service
type GenerateTasksResponse struct {
	Tasks []TaskDraftDTO `json:"tasks"`
}
