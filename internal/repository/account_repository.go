package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Muhammad-shoaib-tech-lab/todo-api/internal/models"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return translateError(r.db.WithContext(ctx).Create(account).Error)
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindByEmail finds an account by email
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// List lists all accounts
func (r *GormAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, translateError(err)
	}
	return accounts, nil
}

// Update updates email and role of an account
func (r *GormAccountRepository) Update(ctx context.Context, account *models.Account) error {
	res := r.db.WithContext(ctx).Model(account).Updates(map[string]interface{}{
		"email": account.Email,
		"role":  account.Role,
	})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWithTasks deletes the account and all tasks it owns in a transaction
func (r *GormAccountRepository) DeleteWithTasks(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
			return err
		}

		// Tasks go first so an interrupted delete never leaves orphans.
		res := tx.Where("owner_email = ?", account.Email).Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		return tx.Delete(&account).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return deleted, nil
}

// RenameEmail renames the account and rewrites task references in a transaction
func (r *GormAccountRepository) RenameEmail(ctx context.Context, oldEmail, newEmail string, role *models.Role) (*models.Account, int64, error) {
	var (
		account models.Account
		updated int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", oldEmail).First(&account).Error; err != nil {
			return err
		}

		changes := map[string]interface{}{"email": newEmail}
		if role != nil {
			changes["role"] = *role
		}
		if err := tx.Model(&account).Updates(changes).Error; err != nil {
			return err
		}
		account.Email = newEmail
		if role != nil {
			account.Role = *role
		}

		if oldEmail == newEmail {
			return nil
		}

		// Owner and delegate references are rewritten independently so a
		// task merely assigned to oldEmail keeps its owner.
		res := tx.Model(&models.Task{}).
			Where("owner_email = ? OR assign_to = ?", oldEmail, oldEmail).
			Updates(map[string]interface{}{
				"owner_email": gorm.Expr("CASE WHEN owner_email = ? THEN ? ELSE owner_email END", oldEmail, newEmail),
				"assign_to":   gorm.Expr("CASE WHEN assign_to = ? THEN ? ELSE assign_to END", oldEmail, newEmail),
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, translateError(err)
	}
	return &account, updated, nil
}
