package repositories

import (
	"database/sql"

	"pharmacademy/internal/models"
)

type AdminUserRepository interface {
	GetByID(id string) (*models.AdminUser, error)
	GetByEmail(email string) (*models.AdminUser, error)

	IncrementFailedAttempts(id string) (int, error)
	ResetFailedAttempts(id string) error
}

type adminUserRepository struct {
	DB *sql.DB
}

func NewAdminUserRepository(db *sql.DB) AdminUserRepository {
	return &adminUserRepository{DB: db}
}

func (r *adminUserRepository) GetByID(id string) (*models.AdminUser, error) {
	const q = `
		SELECT
			id, username, email, password_hash, COALESCE(role, 'officer'),
			COALESCE(failed_attempts, 0), last_failed_at,
			created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`
	return r.scanAdmin(r.DB.QueryRow(q, id))
}

func (r *adminUserRepository) GetByEmail(email string) (*models.AdminUser, error) {
	const q = `
		SELECT
			id, username, email, password_hash, COALESCE(role, 'officer'),
			COALESCE(failed_attempts, 0), last_failed_at,
			created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`
	return r.scanAdmin(r.DB.QueryRow(q, email))
}

func (r *adminUserRepository) scanAdmin(row *sql.Row) (*models.AdminUser, error) {
	a := &models.AdminUser{}
	var lastFailedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role,
		&a.FailedAttempts, &lastFailedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastFailedAt.Valid {
		t := lastFailedAt.Time
		a.LastFailedAt = &t
	}
	return a, nil
}

func (r *adminUserRepository) IncrementFailedAttempts(id string) (int, error) {
	const q = `
		UPDATE admin_users
		SET failed_attempts = COALESCE(failed_attempts, 0) + 1, last_failed_at = NOW()
		WHERE id = $1
		RETURNING failed_attempts
	`
	var n int
	if err := r.DB.QueryRow(q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *adminUserRepository) ResetFailedAttempts(id string) error {
	_, err := r.DB.Exec(`
		UPDATE admin_users
		SET failed_attempts = 0, last_failed_at = NULL
		WHERE id = $1
	`, id)
	return err
}
