package active_sessions_handler

import (
	"encoding/json"
	"net/http"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/dto"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	httpError "github.com/Fedutin22/replit-driving-school-sub001/pkg/http"
)

// ActiveSessionsHandler структура для обработчика отчёта по активным попыткам
type ActiveSessionsHandler struct {
	sessions *session.Registry
}

// NewActiveSessionsHandler создает новый экземпляр обработчика
func NewActiveSessionsHandler(sessions *session.Registry) *ActiveSessionsHandler {
	return &ActiveSessionsHandler{sessions: sessions}
}

// ServeHTTP метод для обработки запроса
func (h *ActiveSessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Снимаем срез состояния всех активных попыток
	activeSessions := h.sessions.Snapshot()

	response := dto.ActiveSessionsResponse{
		TotalActiveUsers: len(activeSessions),
		ActiveSessions:   activeSessions,
	}

	// Отправляем успешный ответ
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
