package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

func TestTaskListFilter(t *testing.T) {
	done := true
	high := models.PriorityHigh

	tests := []struct {
		name   string
		filter TaskFilter
		want   bson.M
	}{
		{name: "all tasks", filter: TaskFilter{}, want: bson.M{}},
		{name: "owner only", filter: TaskFilter{OwnerEmail: "a@x.com"}, want: bson.M{"ownerEmail": "a@x.com"}},
		{
			name:   "every filter",
			filter: TaskFilter{OwnerEmail: "a@x.com", Complete: &done, Priority: &high},
			want:   bson.M{"ownerEmail": "a@x.com", "complete": true, "priority": models.PriorityHigh},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, taskListFilter(tt.filter))
		})
	}
}

func TestTaskReferenceFilter(t *testing.T) {
	got := taskReferenceFilter("old@x.com")

	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"ownerEmail": "old@x.com"},
		bson.M{"assignTo": "old@x.com"},
	}}, got)
}

func TestTaskReferenceRewrite(t *testing.T) {
	pipeline := taskReferenceRewrite("old@x.com", "new@x.com")
	require.Len(t, pipeline, 1)
	require.Len(t, pipeline[0], 1)
	assert.Equal(t, "$set", pipeline[0][0].Key)

	set, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "$$NOW", set["updatedAt"])

	for _, field := range []string{"ownerEmail", "assignTo"} {
		assert.Equal(t, bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$" + field, "old@x.com"}},
			"new@x.com",
			"$" + field,
		}}, set[field], field)
	}
}
