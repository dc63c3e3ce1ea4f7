package dto

import "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"

// ActiveSessionsResponse отчет по активным попыткам прохождения тестов
type ActiveSessionsResponse struct {
	TotalActiveUsers int            `json:"total_active_users"`
	ActiveSessions   []session.Info `json:"active_sessions"`
}
