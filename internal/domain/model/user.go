package model

import "time"

type User struct {
	ID                int       `json:"id"`
	RoleID            int       `json:"role_id"`
	TelegramID        *int64    `json:"telegram_id,omitempty"`
	TelegramUsername  string    `json:"telegram_username"`
	TelegramFirstName *string   `json:"telegram_first_name,omitempty"`
	StudentID         *int      `json:"student_id,omitempty"` // идентификатор студента в системе автошколы
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
