package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	tasks *mongo.Collection
}

// NewMongoTaskRepository creates a new TaskRepository backed by db
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{tasks: db.Collection(database.TasksCollection)}
}

// Create creates a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.tasks.InsertOne(ctx, task)
	return translateMongoError(err)
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := taskListFilter(filter)

	total, err := r.tasks.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if filter.Pagination.Enabled() {
		opts.SetSkip(int64(filter.Pagination.Offset)).SetLimit(int64(filter.Pagination.Limit))
	}

	cursor, err := r.tasks.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, 0, translateMongoError(err)
	}
	return tasks, total, nil
}

// Update applies a $set of the provided fields and returns the document
// after the write.
func (r *MongoTaskRepository) Update(ctx context.Context, id string, changes TaskChanges) (*models.Task, error) {
	var task models.Task
	err := r.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": taskChangeSet(changes, time.Now().UTC())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

// Delete deletes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func taskChangeSet(changes TaskChanges, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	for _, f := range changes.fields() {
		set[f.key] = f.value
	}
	return set
}

func taskListFilter(filter TaskFilter) bson.M {
	query := bson.M{}
	if filter.OwnerEmail != "" {
		query["ownerEmail"] = filter.OwnerEmail
	}
	if filter.Complete != nil {
		query["complete"] = *filter.Complete
	}
	if filter.Priority != nil {
		query["priority"] = *filter.Priority
	}
	return query
}
