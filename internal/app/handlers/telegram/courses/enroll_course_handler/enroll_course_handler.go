package enroll_course_handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// EnrollCourseHandler обрабатывает запись студента на курс.
// Запись проводит бекенд автошколы, бот только передаёт заявку.
type EnrollCourseHandler struct {
	api         *schoolapi.Client
	userService *usersService.UserService
}

func NewEnrollCourseHandler(api *schoolapi.Client, userService *usersService.UserService) *EnrollCourseHandler {
	return &EnrollCourseHandler{
		api:         api,
		userService: userService,
	}
}

// Handle обрабатывает callback вида enroll_<courseID>
func (h *EnrollCourseHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	cleanedData := strings.TrimSpace(c.Callback().Data)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	parts := strings.Split(cleanedData, "_")
	if len(parts) != 2 {
		return fmt.Errorf("invalid callback data: %s", cleanedData)
	}
	courseID, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid course id: %w", err)
	}

	studentID, err := h.userService.StudentID(ctx, userID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Ваш аккаунт не привязан к студенту автошколы. Обратитесь к администратору.",
		})
	}

	// Проверяем, что курс ещё существует в каталоге
	course, err := h.api.GetCourse(ctx, courseID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Курс не найден. Обновите каталог.",
		})
	}

	enrollment, err := h.api.EnrollCourse(ctx, courseID, studentID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при записи на курс: %v", err),
		})
	}

	if err := c.Send(fmt.Sprintf("✅ Заявка на курс *%s* (%s) принята! Статус: %s.",
		course.CourseName, course.Price, enrollment.Status), telebot.ModeMarkdown); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{Text: "Заявка отправлена!"})
}
