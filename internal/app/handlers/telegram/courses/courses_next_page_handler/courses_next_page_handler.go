package courses_next_page_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/courseview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// CoursesNextPageHandler листает каталог курсов вперёд
type CoursesNextPageHandler struct {
	api       *schoolapi.Client
	pageState map[int64]int
}

// NewCoursesNextPageHandler возвращает новый экземпляр обработчика
func NewCoursesNextPageHandler(api *schoolapi.Client, pageState map[int64]int) *CoursesNextPageHandler {
	return &CoursesNextPageHandler{
		api:       api,
		pageState: pageState,
	}
}

// Handle обрабатывает callback кнопки следующей страницы
func (h *CoursesNextPageHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	page := h.pageState[userID]
	if page == 0 {
		page = 1
	}

	coursesPage, err := h.api.GetCourses(ctx, page+1, courseview.PageSize)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении курсов: %v", err),
		})
	}

	if len(coursesPage.Courses) == 0 {
		return c.Respond(&telebot.CallbackResponse{Text: "Вы находитесь в конце списка."})
	}

	page++
	h.pageState[userID] = page

	text, markup := courseview.Render(coursesPage, page)
	if err := c.Edit(text, markup, telebot.ModeMarkdown); err != nil &&
		!strings.Contains(err.Error(), "message is not modified") {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CoursesNextPageHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
