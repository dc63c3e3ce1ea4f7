package schedule_handler

import (
	"context"
	"fmt"
	"strings"

	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// ScheduleHandler структура для обработки кнопки "Моё расписание"
type ScheduleHandler struct {
	api         *schoolapi.Client
	userService *usersService.UserService
}

// NewScheduleHandler возвращает новый экземпляр обработчика
func NewScheduleHandler(api *schoolapi.Client, userService *usersService.UserService) *ScheduleHandler {
	return &ScheduleHandler{
		api:         api,
		userService: userService,
	}
}

// Handle обрабатывает callback от кнопки "Моё расписание"
func (h *ScheduleHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	studentID, err := h.userService.StudentID(ctx, userID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Ваш аккаунт не привязан к студенту автошколы. Обратитесь к администратору.",
		})
	}

	lessons, err := h.api.GetSchedule(ctx, studentID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении расписания: %v", err),
		})
	}

	if len(lessons) == 0 {
		if err := c.Send("📅 В вашем расписании пока нет занятий."); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	var messageBuilder strings.Builder
	messageBuilder.WriteString("📅 *Ваше расписание:*\n\n")
	for _, lesson := range lessons {
		attended := ""
		if lesson.Attended != nil {
			if *lesson.Attended {
				attended = " ✅"
			} else {
				attended = " ❌ (пропущено)"
			}
		}
		messageBuilder.WriteString(fmt.Sprintf("*%s* — %s\nИнструктор: %s\n%s, %d мин.%s\n\n",
			lesson.StartsAt.Format("02.01.2006 15:04"),
			lesson.CourseName,
			lesson.InstructorName,
			lesson.Location,
			lesson.DurationMinutes,
			attended,
		))
	}

	if err := c.Send(messageBuilder.String(), telebot.ModeMarkdown); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ScheduleHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
