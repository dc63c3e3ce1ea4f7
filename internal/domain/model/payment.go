package model

import "time"

// Payment представляет платёж студента по курсу.
// Проведение платежей выполняет бекенд, бот только отображает их состояние.
type Payment struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"` // "pending", "paid", "refunded"
	PaidAt      *time.Time `json:"paid_at,omitempty"`
}
