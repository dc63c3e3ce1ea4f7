package certificates_handler

import (
	"context"
	"fmt"
	"strings"

	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// CertificatesHandler структура для обработки кнопки "Мои свидетельства"
type CertificatesHandler struct {
	api         *schoolapi.Client
	userService *usersService.UserService
}

// NewCertificatesHandler возвращает новый экземпляр обработчика
func NewCertificatesHandler(api *schoolapi.Client, userService *usersService.UserService) *CertificatesHandler {
	return &CertificatesHandler{
		api:         api,
		userService: userService,
	}
}

// Handle обрабатывает callback от кнопки "Мои свидетельства"
func (h *CertificatesHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	studentID, err := h.userService.StudentID(ctx, userID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Ваш аккаунт не привязан к студенту автошколы. Обратитесь к администратору.",
		})
	}

	certificates, err := h.api.GetCertificates(ctx, studentID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении свидетельств: %v", err),
		})
	}

	if len(certificates) == 0 {
		if err := c.Send("🎓 У вас пока нет свидетельств об окончании курсов."); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	var messageBuilder strings.Builder
	messageBuilder.WriteString("🎓 *Ваши свидетельства:*\n\n")
	for _, certificate := range certificates {
		messageBuilder.WriteString(fmt.Sprintf("*%s*\nНомер: %s\nВыдано: %s\n\n",
			certificate.CourseName,
			certificate.Number,
			certificate.IssuedAt.Format("02.01.2006"),
		))
	}

	if err := c.Send(messageBuilder.String(), telebot.ModeMarkdown); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CertificatesHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
