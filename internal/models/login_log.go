package models

import "time"

const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

type LoginLog struct {
	ID        string    `json:"id"` // uuid
	AdminID   string    `json:"admin_id"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`

	// заполняется join'ом при выборке
	AdminUsername string `json:"admin_username,omitempty"`
	AdminEmail    string `json:"admin_email,omitempty"`
}

type LoginLogFilter struct {
	AdminID string
	Status  string
	Page    int
	Limit   int
}

type LoginLogPage struct {
	Data       []*LoginLog `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}
