package model

import "time"

// TestLink представляет одноразовую ссылку-приглашение на тест.
type TestLink struct {
	ID        int        `json:"id"`
	TestID    int        `json:"test_id"`
	Token     string     `json:"token"`
	CreatedAt time.Time  `json:"created_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}
