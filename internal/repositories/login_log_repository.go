package repositories

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"pharmacademy/internal/models"
)

type LoginLogRepository interface {
	Create(logEntry *models.LoginLog) error
	List(filter models.LoginLogFilter) (*models.LoginLogPage, error)
}

type loginLogRepository struct {
	DB *sql.DB
}

func NewLoginLogRepository(db *sql.DB) LoginLogRepository {
	return &loginLogRepository{DB: db}
}

func (r *loginLogRepository) Create(logEntry *models.LoginLog) error {
	if logEntry.ID == "" {
		logEntry.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO admin_login_logs (id, admin_id, status, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.DB.QueryRow(q,
		logEntry.ID,
		logEntry.AdminID,
		logEntry.Status,
		logEntry.IPAddress,
		logEntry.UserAgent,
	).Scan(&logEntry.CreatedAt)
}

func (r *loginLogRepository) List(filter models.LoginLogFilter) (*models.LoginLogPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}
	offset := (filter.Page - 1) * filter.Limit

	where := "WHERE 1=1"
	args := []any{}
	if filter.AdminID != "" {
		args = append(args, filter.AdminID)
		where += fmt.Sprintf(" AND l.admin_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND l.status = $%d", len(args))
	}

	var total int
	countQ := `SELECT COUNT(*) FROM admin_login_logs l ` + where
	if err := r.DB.QueryRow(countQ, args...).Scan(&total); err != nil {
		return nil, err
	}

	args = append(args, filter.Limit, offset)
	listQ := fmt.Sprintf(`
		SELECT
			l.id, l.admin_id, l.status, l.ip_address, l.user_agent, l.created_at,
			COALESCE(a.username, ''), COALESCE(a.email, '')
		FROM admin_login_logs l
		LEFT JOIN admin_users a ON a.id = l.admin_id
		%s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.DB.Query(listQ, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		l := &models.LoginLog{}
		if err := rows.Scan(
			&l.ID, &l.AdminID, &l.Status, &l.IPAddress, &l.UserAgent, &l.CreatedAt,
			&l.AdminUsername, &l.AdminEmail,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &models.LoginLogPage{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}
