package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return internal.ErrUsernameTaken
		}
		return internal.NewInternalError("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return &u, nil
}

func (r *UserRepository) ListByRole(role string) ([]*user.User, error) {
	var users []*user.User
	err := r.db.Where("role = ?", role).Order("name ASC").Find(&users).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// DeleteWithDetach nulls report ownership before removing the account so
// historical reports keep their snapshot name.
func (r *UserRepository) DeleteWithDetach(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE reports SET user_id = NULL WHERE user_id = ?", id).Error; err != nil {
			return internal.NewInternalError("failed to detach reports", err)
		}

		res := tx.Delete(&user.User{}, id)
		if res.Error != nil {
			return internal.NewInternalError("failed to delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}

// isUniqueViolation matches both the postgres translated error and the raw
// sqlite message used by the test database.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
