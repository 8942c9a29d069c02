package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

func accountDoc(id, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "email", Value: email},
		{Key: "passwordHash", Value: "hashed"},
		{Key: "role", Value: "user"},
	}
}

func findAndModifyResponse(doc interface{}) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func commandError() bson.D {
	return mtest.CreateCommandErrorResponse(mtest.CommandError{
		Code:    8000,
		Name:    "AtlasError",
		Message: "write failed",
	})
}

// startedOn lists the command name and target collection of every command
// sent by the client, in order.
func startedOn(mt *mtest.T) []string {
	var got []string
	for _, evt := range mt.GetAllStartedEvents() {
		got = append(got, evt.CommandName+" "+evt.Command.Lookup(evt.CommandName).StringValue())
	}
	return got
}

func TestMongoAccountRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		err := repo.Create(ctx, &models.Account{Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser})
		assert.ErrorIs(mt, err, ErrDuplicateEmail)
	})

	mt.Run("update missing account", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.Update(ctx, &models.Account{ID: "missing", Email: "a@x.com", Role: models.RoleUser})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete removes tasks before the account", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		ns := database.AccountsCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mtest.TestDb+"."+ns, mtest.FirstBatch, accountDoc("acc-1", "a@x.com")),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		deleted, err := repo.DeleteWithTasks(ctx, "acc-1")
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, deleted)
		assert.Equal(mt, []string{
			"find " + database.AccountsCollection,
			"delete " + database.TasksCollection,
			"delete " + database.AccountsCollection,
		}, startedOn(mt))
	})

	mt.Run("delete keeps the account when task removal fails", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		ns := database.AccountsCollection
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, mtest.TestDb+"."+ns, mtest.FirstBatch, accountDoc("acc-1", "a@x.com")),
			commandError(),
		)

		_, err := repo.DeleteWithTasks(ctx, "acc-1")
		require.Error(mt, err)
		assert.NotContains(mt, startedOn(mt), "delete "+database.AccountsCollection)
	})

	mt.Run("rename rewrites task references", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		mt.AddMockResponses(
			findAndModifyResponse(accountDoc("acc-1", "new@x.com")),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 2},
				bson.E{Key: "nModified", Value: 2},
			),
		)

		account, updated, err := repo.RenameEmail(ctx, "a@x.com", "new@x.com", nil)
		require.NoError(mt, err)
		assert.Equal(mt, "new@x.com", account.Email)
		assert.EqualValues(mt, 2, updated)
		assert.Equal(mt, []string{
			"findAndModify " + database.AccountsCollection,
			"update " + database.TasksCollection,
		}, startedOn(mt))
	})

	mt.Run("rename of a missing account", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		mt.AddMockResponses(findAndModifyResponse(nil))

		_, _, err := repo.RenameEmail(ctx, "missing@x.com", "new@x.com", nil)
		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Len(mt, startedOn(mt), 1)
	})

	mt.Run("rename reports a partial write", func(mt *mtest.T) {
		repo := NewMongoAccountRepository(mt.DB)
		mt.AddMockResponses(
			findAndModifyResponse(accountDoc("acc-1", "new@x.com")),
			commandError(),
		)

		account, updated, err := repo.RenameEmail(ctx, "a@x.com", "new@x.com", nil)
		assert.ErrorIs(mt, err, ErrPartialRename)
		require.NotNil(mt, account)
		assert.Equal(mt, "new@x.com", account.Email)
		assert.Zero(mt, updated)
	})
}

func TestMongoTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("update sets only the provided fields", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(findAndModifyResponse(bson.D{
			{Key: "_id", Value: "task-1"},
			{Key: "title", Value: "Renamed"},
			{Key: "complete", Value: true},
			{Key: "ownerEmail", Value: "a@x.com"},
		}))

		title := "Renamed"
		task, err := repo.Update(ctx, "task-1", TaskChanges{Title: &title})
		require.NoError(mt, err)
		assert.Equal(mt, "Renamed", task.Title)
		assert.True(mt, task.Complete)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		set := started.Command.Lookup("update", "$set").Document()
		assert.Equal(mt, "Renamed", set.Lookup("title").StringValue())
		_, err = set.LookupErr("complete")
		assert.Error(mt, err)
		_, err = set.LookupErr("ownerEmail")
		assert.Error(mt, err)
	})

	mt.Run("update missing task", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(findAndModifyResponse(nil))

		done := true
		_, err := repo.Update(ctx, "missing", TaskChanges{Complete: &done})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete missing task", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(ctx, "missing"), ErrNotFound)
	})

	mt.Run("find missing task", func(mt *mtest.T) {
		repo := NewMongoTaskRepository(mt.DB)
		ns := mtest.TestDb + "." + database.TasksCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
