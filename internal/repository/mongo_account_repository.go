package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/database"
	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

// ErrPartialRename is returned by the MongoDB store when the account was
// renamed but rewriting its task references failed. The tasks still point at
// the old email.
var ErrPartialRename = errors.New("repository: account renamed but task references not rewritten")

// MongoAccountRepository is a MongoDB implementation of AccountRepository.
// Multi-document writes are sequential, not transactional.
type MongoAccountRepository struct {
	accounts *mongo.Collection
	tasks    *mongo.Collection
}

// NewMongoAccountRepository creates a new AccountRepository backed by db
func NewMongoAccountRepository(db *mongo.Database) AccountRepository {
	return &MongoAccountRepository{
		accounts: db.Collection(database.AccountsCollection),
		tasks:    db.Collection(database.TasksCollection),
	}
}

// Create creates a new account
func (r *MongoAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = models.NewID()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := r.accounts.InsertOne(ctx, account)
	return translateMongoError(err)
}

// FindByID finds an account by ID
func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail finds an account by email
func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.accounts.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translateMongoError(err)
	}
	return &account, nil
}

// List lists all accounts
func (r *MongoAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	cursor, err := r.accounts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}

	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, translateMongoError(err)
	}
	return accounts, nil
}

// Update updates email and role of an account
func (r *MongoAccountRepository) Update(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	res, err := r.accounts.UpdateOne(ctx, bson.M{"_id": account.ID}, bson.M{"$set": bson.M{
		"email":     account.Email,
		"role":      account.Role,
		"updatedAt": account.UpdatedAt,
	}})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithTasks removes the account's tasks first and the account second, so
// an interrupted delete leaves an account without tasks that can be deleted again.
func (r *MongoAccountRepository) DeleteWithTasks(ctx context.Context, id string) (int64, error) {
	account, err := r.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}

	res, err := r.tasks.DeleteMany(ctx, bson.M{"ownerEmail": account.Email})
	if err != nil {
		return 0, fmt.Errorf("failed to delete tasks of %s: %w", account.Email, translateMongoError(err))
	}

	if _, err := r.accounts.DeleteOne(ctx, bson.M{"_id": account.ID}); err != nil {
		return res.DeletedCount, translateMongoError(err)
	}
	return res.DeletedCount, nil
}

// RenameEmail updates the account first and then rewrites task references.
func (r *MongoAccountRepository) RenameEmail(ctx context.Context, oldEmail, newEmail string, role *models.Role) (*models.Account, int64, error) {
	set := bson.M{"email": newEmail, "updatedAt": time.Now().UTC()}
	if role != nil {
		set["role"] = *role
	}

	var account models.Account
	err := r.accounts.FindOneAndUpdate(ctx,
		bson.M{"email": oldEmail},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&account)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	if oldEmail == newEmail {
		return &account, 0, nil
	}

	res, err := r.tasks.UpdateMany(ctx, taskReferenceFilter(oldEmail), taskReferenceRewrite(oldEmail, newEmail))
	if err != nil {
		return &account, 0, fmt.Errorf("%w: %v", ErrPartialRename, err)
	}
	return &account, res.ModifiedCount, nil
}

func taskReferenceFilter(email string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"ownerEmail": email},
		bson.M{"assignTo": email},
	}}
}

// taskReferenceRewrite is an update pipeline that replaces each field only
// when it holds oldEmail.
func taskReferenceRewrite(oldEmail, newEmail string) mongo.Pipeline {
	replace := func(field string) bson.M {
		return bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$" + field, oldEmail}},
			newEmail,
			"$" + field,
		}}
	}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"ownerEmail": replace("ownerEmail"),
			"assignTo":   replace("assignTo"),
			"updatedAt":  "$$NOW",
		}}},
	}
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateEmail
	default:
		return err
	}
}
