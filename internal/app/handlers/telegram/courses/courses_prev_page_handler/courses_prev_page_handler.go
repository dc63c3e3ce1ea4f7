package courses_prev_page_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/courseview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// CoursesPrevPageHandler листает каталог курсов назад
type CoursesPrevPageHandler struct {
	api       *schoolapi.Client
	pageState map[int64]int
}

// NewCoursesPrevPageHandler возвращает новый экземпляр обработчика
func NewCoursesPrevPageHandler(api *schoolapi.Client, pageState map[int64]int) *CoursesPrevPageHandler {
	return &CoursesPrevPageHandler{
		api:       api,
		pageState: pageState,
	}
}

// Handle обрабатывает callback кнопки предыдущей страницы
func (h *CoursesPrevPageHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	page := h.pageState[userID]
	if page <= 1 {
		return c.Respond(&telebot.CallbackResponse{Text: "Вы находитесь в начале списка."})
	}

	coursesPage, err := h.api.GetCourses(ctx, page-1, courseview.PageSize)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении курсов: %v", err),
		})
	}

	page--
	h.pageState[userID] = page

	text, markup := courseview.Render(coursesPage, page)
	if err := c.Edit(text, markup, telebot.ModeMarkdown); err != nil &&
		!strings.Contains(err.Error(), "message is not modified") {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CoursesPrevPageHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
