package start_handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	linksService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/links/service"
	messageService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/messages/service"
	rolesService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/service"
	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"gopkg.in/telebot.v4"
)

// StartHandler структура для обработки команды /start
type StartHandler struct {
	userService    *usersService.UserService
	messageService *messageService.MessageService
	roleService    *rolesService.RoleService
	linkService    *linksService.LinkService
	testState      map[int64]int
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(
	userService *usersService.UserService,
	messageService *messageService.MessageService,
	roleService *rolesService.RoleService,
	linkService *linksService.LinkService,
	testState map[int64]int,
) *StartHandler {
	return &StartHandler{
		userService:    userService,
		messageService: messageService,
		roleService:    roleService,
		linkService:    linkService,
		testState:      testState,
	}
}

// Handle метод, который будет использоваться для обработки команды /start.
// Поддерживает deep-link приглашения на тест вида /start test_<id>_<token>.
func (h *StartHandler) Handle(c telebot.Context) error {
	username := c.Sender().Username
	telegramID := c.Sender().ID
	telegramFirstName := c.Sender().FirstName

	if username == "" {
		return c.Send("Username is required")
	}

	// Используем дефолтный контекст
	ctx := context.Background()

	// Попытка получить или создать пользователя
	userID, err := h.userService.GetOrCreateUser(ctx, username, telegramID, telegramFirstName, "student")
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to process user: %v", err))
	}

	user, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to process user: %v", err))
	}

	// Обрабатываем приглашение на тест из deep-link, если оно есть
	invited := false
	if payload := c.Message().Payload; strings.HasPrefix(payload, "test_") {
		if testID, ok := h.resolveInvite(ctx, payload); ok {
			h.testState[telegramID] = testID
			invited = true
		}
	}

	// Получаем мапу с кнопками для пользователя
	buttonsMessages, err := h.messageService.GetButtons(ctx)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve buttons: %v", err))
	}

	// Генерация клавиатуры в зависимости от прав
	keyboard, err := h.roleService.GetRoleBasedKeyboard(ctx, user.RoleID, buttonsMessages)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to generate keyboard: %v", err))
	}

	welcomeMessageKey := "welcome_message"
	if invited {
		// Приглашённому показываем сообщение с предложением начать тест
		welcomeMessageKey = "welcome_message_invited"
	}
	welcomeMessage, err := h.messageService.GetMessageByKey(ctx, welcomeMessageKey)
	if err != nil {
		return c.Send(fmt.Sprintf("Failed to retrieve welcome message: %v", err))
	}

	firstName := ""
	if user.TelegramFirstName != nil {
		firstName = *user.TelegramFirstName
	}
	welcomeMessage = fmt.Sprintf(welcomeMessage, firstName)

	// Отправляем сообщение с клавиатурой
	return c.Send(welcomeMessage, &telebot.SendOptions{
		ParseMode: telebot.ModeHTML,
		ReplyMarkup: &telebot.ReplyMarkup{
			InlineKeyboard: keyboard,
		},
	})
}

// resolveInvite разбирает payload вида test_<id>_<token> и гасит одноразовый токен.
func (h *StartHandler) resolveInvite(ctx context.Context, payload string) (int, bool) {
	parts := strings.Split(payload, "_")
	if len(parts) < 3 {
		return 0, false
	}

	testID, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	token := parts[2]

	link, err := h.linkService.ResolveToken(ctx, token)
	if err != nil || link.TestID != testID {
		return 0, false
	}
	return link.TestID, true
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
