package postgres

import (
	"database/sql"
	"strings"

	"gorm.io/gorm"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(email string) (string, int64, error) {
	var passwordHash string
	var userID int64

	row := r.db.Raw(`SELECT id, password_hash FROM users WHERE email = ? AND is_active = true`, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, internal.ErrInvalidCredentials
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User
	var permissions string

	row := r.db.Raw(`SELECT id, email, name, permissions FROM users WHERE id = ? AND is_active = true`, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &permissions); err != nil {
		if err == sql.ErrNoRows {
			return nil, internal.ErrUserInactive
		}
		return nil, err
	}

	// Permissions are stored as one comma-separated column.
	for _, p := range strings.Split(permissions, ",") {
		if p = strings.TrimSpace(p); p != "" {
			user.Permissions = append(user.Permissions, p)
		}
	}
	return &user, nil
}
