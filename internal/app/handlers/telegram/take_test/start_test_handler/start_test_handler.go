package start_test_handler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/questionview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/submit_handler"
	messageService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/messages/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/infra/timer"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// StartTestHandler обрабатывает нажатие кнопки "Пройти тест": создаёт попытку
// на бекенде, регистрирует её в реестре и при наличии лимита времени запускает таймер.
// На одно нажатие уходит ровно один запрос старта; при ошибке повторного запроса нет.
type StartTestHandler struct {
	bot            *telebot.Bot
	api            *schoolapi.Client
	userService    *usersService.UserService
	messageService *messageService.MessageService
	sessions       *session.Registry
	updater        *timer.Updater
	finisher       *submit_handler.SubmitHandler
	testState      map[int64]int
}

// NewStartTestHandler возвращает новый экземпляр обработчика
func NewStartTestHandler(
	bot *telebot.Bot,
	api *schoolapi.Client,
	userService *usersService.UserService,
	messageService *messageService.MessageService,
	sessions *session.Registry,
	updater *timer.Updater,
	finisher *submit_handler.SubmitHandler,
	testState map[int64]int,
) *StartTestHandler {
	return &StartTestHandler{
		bot:            bot,
		api:            api,
		userService:    userService,
		messageService: messageService,
		sessions:       sessions,
		updater:        updater,
		finisher:       finisher,
		testState:      testState,
	}
}

// Handle обрабатывает callback от кнопки "Пройти тест"
func (h *StartTestHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	userID := c.Sender().ID

	// Защита от повторного старта: на один чат не более одной активной попытки
	if run, ok := h.sessions.Get(userID); ok && !run.Submitted() {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Тест уже запущен. Завершите текущую попытку.",
		})
	}

	test, err := h.resolveTest(ctx, userID)
	if err != nil {
		noTestsMessage, msgErr := h.messageService.GetMessageByKey(ctx, "no_available_tests")
		if msgErr != nil {
			noTestsMessage = "Для вас нет назначенных тестов."
		}
		return c.Respond(&telebot.CallbackResponse{Text: noTestsMessage})
	}

	var resp *schoolapi.StartResponse
	if test.TestType == "assessment" {
		resp, err = h.api.StartAssessment(ctx, test.ID)
	} else {
		resp, err = h.api.StartTest(ctx, test.ID)
	}
	if err != nil {
		log.Printf("Failed to start test %d for user %d: %v", test.ID, userID, err)
		// Старт не повторяется автоматически: пользователь видит статичное сообщение
		failedMessage, msgErr := h.messageService.GetMessageByKey(ctx, "start_test_failed")
		if msgErr != nil {
			failedMessage = "Не удалось начать тест. Попробуйте позже."
		}
		if err := c.Send(failedMessage); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	if len(resp.Questions) == 0 {
		// Пустой тест — отдельное завершающее сообщение, попытка не создаётся
		emptyMessage, msgErr := h.messageService.GetMessageByKey(ctx, "test_no_questions")
		if msgErr != nil {
			emptyMessage = "В этом тесте пока нет вопросов. Обратитесь в автошколу."
		}
		if err := c.Send(emptyMessage); err != nil {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	run := session.NewRunner(resp.TestInstance.ID, resp.ModelQuestions(), resp.TimeLimitMinutes(), h.api.SubmitTest)
	run.SetTestName(test.TestName)
	h.sessions.Put(userID, run)
	delete(h.testState, userID)

	if err := c.Send(fmt.Sprintf("📝 Тест *%s* начат. Удачи!", test.TestName), telebot.ModeMarkdown); err != nil {
		return err
	}

	// Таймер запускается только для теста с лимитом времени
	if run.Status() == session.StatusRunning {
		if err := h.startTimer(userID, run); err != nil {
			log.Printf("Failed to start timer for user %d: %v", userID, err)
		}
	}

	text, markup := questionview.Render(run)
	if err := c.Send(text, markup, telebot.ModeMarkdown); err != nil {
		return err
	}

	return c.Respond(&telebot.CallbackResponse{Text: "Тест успешно начат!"})
}

// resolveTest определяет, какой тест запускать: назначенный по ссылке-приглашению
// или первый из доступных студенту на бекенде.
func (h *StartTestHandler) resolveTest(ctx context.Context, userID int64) (*model.Test, error) {
	studentID, err := h.userService.StudentID(ctx, userID)

	// Тест, назначенный по ссылке-приглашению, имеет приоритет
	if testID, ok := h.testState[userID]; ok {
		if err == nil {
			if available, listErr := h.api.GetAvailableTests(ctx, studentID); listErr == nil {
				for _, t := range available {
					if t.ID == testID {
						return &t, nil
					}
				}
			}
		}
		return &model.Test{ID: testID, TestName: fmt.Sprintf("Тест №%d", testID), TestType: "test"}, nil
	}

	if err != nil {
		return nil, err
	}

	available, err := h.api.GetAvailableTests(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get available tests: %w", err)
	}
	if len(available) == 0 {
		return nil, errors.New("нет назначенных тестов")
	}
	return &available[0], nil
}

// startTimer отправляет сообщение с обратным отсчётом и запускает горутину таймера.
func (h *StartTestHandler) startTimer(userID int64, run *session.Runner) error {
	remaining := run.Remaining()
	_, total := run.Progress()
	timerText := fmt.Sprintf("⏰ Оставшееся время: %02d:%02d, Вопрос 1/%d",
		remaining/60, remaining%60, total)

	msg, err := h.bot.Send(&telebot.User{ID: userID}, timerText)
	if err != nil {
		return fmt.Errorf("failed to send timer message: %w", err)
	}

	timerCtx, cancel := context.WithCancel(context.Background())
	run.BindTimer(cancel)
	go h.updater.Run(timerCtx, userID, msg.ID, run, func() {
		h.finisher.FinishByUser(userID)
	})
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartTestHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
