package view_courses_handler

import (
	"context"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/courseview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// ViewCoursesHandler структура для обработки кнопки "Курсы обучения".
// Показывает первую страницу каталога, состояние страницы живёт в pageState.
type ViewCoursesHandler struct {
	api       *schoolapi.Client
	pageState map[int64]int
}

// NewViewCoursesHandler возвращает новый экземпляр обработчика
func NewViewCoursesHandler(api *schoolapi.Client, pageState map[int64]int) *ViewCoursesHandler {
	return &ViewCoursesHandler{
		api:       api,
		pageState: pageState,
	}
}

// Handle обрабатывает callback от кнопки "Курсы обучения"
func (h *ViewCoursesHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	h.pageState[userID] = 1

	coursesPage, err := h.api.GetCourses(ctx, 1, courseview.PageSize)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении курсов: %v", err),
		})
	}

	text, markup := courseview.Render(coursesPage, 1)
	if err := c.Send(text, markup, telebot.ModeMarkdown); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ViewCoursesHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
