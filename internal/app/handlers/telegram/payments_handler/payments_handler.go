package payments_handler

import (
	"context"
	"fmt"
	"strings"

	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// PaymentsHandler структура для обработки кнопки "Мои платежи"
type PaymentsHandler struct {
	api         *schoolapi.Client
	userService *usersService.UserService
}

// NewPaymentsHandler возвращает новый экземпляр обработчика
func NewPaymentsHandler(api *schoolapi.Client, userService *usersService.UserService) *PaymentsHandler {
	return &PaymentsHandler{
		api:         api,
		userService: userService,
	}
}

// Handle обрабатывает callback от кнопки "Мои платежи"
func (h *PaymentsHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	studentID, err := h.userService.StudentID(ctx, userID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Ваш аккаунт не привязан к студенту автошколы. Обратитесь к администратору.",
		})
	}

	payments, err := h.api.GetPayments(ctx, studentID)
	if err != nil {
		return c.Respond(&telebot.CallbackResponse{
			Text: fmt.Sprintf("Ошибка при получении платежей: %v", err),
		})
	}

	if len(payments) == 0 {
		if err := c.Send("💳 У вас пока нет платежей."); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	statusText := map[string]string{
		"pending":  "⏳ ожидает оплаты",
		"paid":     "✅ оплачен",
		"refunded": "↩️ возвращён",
	}

	var messageBuilder strings.Builder
	messageBuilder.WriteString("💳 *Ваши платежи:*\n\n")
	for _, payment := range payments {
		status, ok := statusText[payment.Status]
		if !ok {
			status = payment.Status
		}
		messageBuilder.WriteString(fmt.Sprintf("*%s* — %s %s\nСтатус: %s\n",
			payment.Description, payment.Amount, payment.Currency, status))
		if payment.PaidAt != nil {
			messageBuilder.WriteString(fmt.Sprintf("Оплачен: %s\n", payment.PaidAt.Format("02.01.2006")))
		}
		messageBuilder.WriteString("\n")
	}

	if err := c.Send(messageBuilder.String(), telebot.ModeMarkdown); err != nil {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *PaymentsHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
