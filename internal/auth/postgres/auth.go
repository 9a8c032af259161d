package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/velonis/field-reports/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(username string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, role, password_hash FROM users WHERE username = ?`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&creds.UserID, &creds.Role, &creds.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &creds, nil
}
