package link_student_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	httpError "github.com/Fedutin22/replit-driving-school-sub001/pkg/http"
	"github.com/go-playground/validator/v10"
)

// StudentLinker привязывает пользователя бота к студенту автошколы;
// реализуется сервисом пользователей.
type StudentLinker interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	LinkStudent(ctx context.Context, userID, studentID int) error
}

// LinkStudentRequest структура для данных запроса
type LinkStudentRequest struct {
	Username  string `json:"username" validate:"required"`
	StudentID int    `json:"student_id" validate:"required,gt=0"`
}

// LinkStudentHandler структура для обработчика
type LinkStudentHandler struct {
	users    StudentLinker
	validate *validator.Validate
}

// NewLinkStudentHandler создает новый экземпляр обработчика
func NewLinkStudentHandler(users StudentLinker) *LinkStudentHandler {
	return &LinkStudentHandler{
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP метод для обработки запроса
func (h *LinkStudentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Декодируем запрос
	var request LinkStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Проверяем, что username и student_id указаны
	if err := h.validate.Struct(request); err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx := r.Context()
	user, err := h.users.GetUserByUsername(ctx, request.Username)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to find user: %v", err))
		return
	}
	if user == nil {
		httpError.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("User %s not found", request.Username))
		return
	}

	// Привязываем пользователя к студенту
	if err := h.users.LinkStudent(ctx, user.ID, request.StudentID); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to link student: %v", err))
		return
	}

	// Отправляем успешный ответ
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	response := map[string]interface{}{
		"message": fmt.Sprintf("User %s linked to student %d", request.Username, request.StudentID),
		"user_id": user.ID,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
