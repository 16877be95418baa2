package repositories

import (
	"database/sql"
	"time"

	"pharmacademy/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdatePassword(id int, passwordHash string) error

	// throttling: инкремент строго атомарный, read-modify-write недопустим
	IncrementFailedAttempts(id int) (int, error)
	ResetFailedAttempts(id int) error

	// OTP-сброс пароля: оба поля живут и умирают вместе
	SetResetOTP(id int, code string, expiresAt time.Time) error
	ClearResetOTP(id int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (full_name, email, password_hash, role, failed_attempts)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT
			id, full_name, email, password_hash, role,
			COALESCE(failed_attempts, 0), last_failed_at,
			reset_otp, reset_otp_expires_at,
			created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT
			id, full_name, email, password_hash, role,
			COALESCE(failed_attempts, 0), last_failed_at,
			reset_otp, reset_otp_expires_at,
			created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		lastFailedAt sql.NullTime
		resetOTP     sql.NullString
		resetOTPExp  sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Role,
		&u.FailedAttempts, &lastFailedAt,
		&resetOTP, &resetOTPExp,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastFailedAt.Valid {
		t := lastFailedAt.Time
		u.LastFailedAt = &t
	}
	if resetOTP.Valid {
		s := resetOTP.String
		u.ResetOTP = &s
	}
	if resetOTPExp.Valid {
		t := resetOTPExp.Time
		u.ResetOTPExpiresAt = &t
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET password_hash=$1, updated_at=NOW()
		WHERE id=$2
	`, passwordHash, id)
	return err
}

// IncrementFailedAttempts — одним UPDATE, чтобы параллельные попытки не теряли счёт.
func (r *userRepository) IncrementFailedAttempts(id int) (int, error) {
	const q = `
		UPDATE users
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

func (r *userRepository) ResetFailedAttempts(id int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET failed_attempts = 0, last_failed_at = NULL
		WHERE id = $1
	`, id)
	return err
}

func (r *userRepository) SetResetOTP(id int, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET reset_otp = $1, reset_otp_expires_at = $2
		WHERE id = $3
	`, code, expiresAt, id)
	return err
}

func (r *userRepository) ClearResetOTP(id int) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET reset_otp = NULL, reset_otp_expires_at = NULL
		WHERE id = $1
	`, id)
	return err
}
