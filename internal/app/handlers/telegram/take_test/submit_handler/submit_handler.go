package submit_handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/questionview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/report"
	"gopkg.in/telebot.v4"
)

// Sender отправляет сообщения в Telegram; *telebot.Bot реализует интерфейс.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// UserDirectory возвращает данные пользователя бота для отчёта.
type UserDirectory interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}

// SubmitHandler обрабатывает завершение теста: подтверждение при неполных ответах,
// ручную отправку и автоотправку по истечении времени. За одну попытку уходит
// не более одной успешной отправки; при ошибке пользователь повторяет вручную.
type SubmitHandler struct {
	bot      Sender
	sessions *session.Registry
	users    UserDirectory
}

// NewSubmitHandler возвращает новый экземпляр обработчика
func NewSubmitHandler(bot Sender, sessions *session.Registry, users UserDirectory) *SubmitHandler {
	return &SubmitHandler{
		bot:      bot,
		sessions: sessions,
		users:    users,
	}
}

// Handle обрабатывает callback-кнопки завершения теста:
// submit_request, submit_confirm и submit_cancel.
func (h *SubmitHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	cleanedData := strings.TrimSpace(c.Callback().Data)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	run, ok := h.sessions.Get(userID)
	if !ok {
		return c.Respond(&telebot.CallbackResponse{
			Text: "Тест не найден. Пожалуйста, начните тест заново.",
		})
	}

	switch cleanedData {
	case "submit_request":
		answered := run.AnsweredCount()
		total := run.TotalQuestions()
		if answered < total {
			// Не все вопросы отвечены: спрашиваем подтверждение с точными числами,
			// запрос на бекенд при этом не уходит
			markup := &telebot.ReplyMarkup{}
			markup.Inline(
				markup.Row(markup.Data("✅ Отправить", "submit_confirm")),
				markup.Row(markup.Data("↩️ Продолжить тест", "submit_cancel")),
			)
			prompt := fmt.Sprintf("Отвечено %d из %d вопросов. Отправить ответы?", answered, total)
			if err := c.Edit(prompt, markup); err != nil {
				return err
			}
			return c.Respond(&telebot.CallbackResponse{})
		}
		return h.submit(c, run)
	case "submit_confirm":
		return h.submit(c, run)
	case "submit_cancel":
		// Отказ от подтверждения: отправки нет, возвращаем пользователя к текущему вопросу
		text, markup := questionview.Render(run)
		if err := c.Edit(text, markup, telebot.ModeMarkdown); err != nil &&
			!strings.Contains(err.Error(), "message is not modified") {
			return err
		}
		return c.Respond(&telebot.CallbackResponse{})
	}

	return nil
}

// submit выполняет ручную отправку по нажатию кнопки.
func (h *SubmitHandler) submit(c telebot.Context, run *session.Runner) error {
	userID := c.Sender().ID

	result, err := run.Submit(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSubmitInFlight):
			return c.Respond(&telebot.CallbackResponse{Text: "Отправка ответов уже выполняется."})
		case errors.Is(err, session.ErrAlreadySubmitted):
			return c.Respond(&telebot.CallbackResponse{Text: "Ответы уже отправлены."})
		default:
			log.Printf("Failed to submit test for user %d: %v", userID, err)
			// Отправка не удалась: ответы сохранены, пользователь повторяет вручную
			if err := c.Send("❗ Не удалось отправить ответы. Нажмите «Завершить тест», чтобы попробовать ещё раз."); err != nil {
				return err
			}
			return c.Respond(&telebot.CallbackResponse{})
		}
	}

	if err := h.sendResult(userID, run, result.Passed, result.Percentage); err != nil {
		log.Printf("Failed to deliver test result to user %d: %v", userID, err)
	}
	return c.Respond(&telebot.CallbackResponse{Text: "Тест завершен!"})
}

// FinishByUser выполняет автоотправку по истечении времени. Вызывается горутиной таймера.
// Если ручная отправка уже в полёте или завершилась, автоотправка молча отступает.
func (h *SubmitHandler) FinishByUser(userID int64) {
	run, ok := h.sessions.Get(userID)
	if !ok {
		return
	}

	result, err := run.Submit(context.Background())
	if err != nil {
		if errors.Is(err, session.ErrSubmitInFlight) || errors.Is(err, session.ErrAlreadySubmitted) {
			return
		}
		log.Printf("Failed to auto-submit test for user %d: %v", userID, err)
		// Автоотправка не повторяется: пользователь может отправить вручную
		_, sendErr := h.bot.Send(&telebot.User{ID: userID},
			"❗ Не удалось отправить ответы по истечении времени. Нажмите «Завершить тест», чтобы попробовать ещё раз.")
		if sendErr != nil {
			log.Printf("Failed to notify user %d about submit failure: %v", userID, sendErr)
		}
		return
	}

	if err := h.sendResult(userID, run, result.Passed, result.Percentage); err != nil {
		log.Printf("Failed to send test result to user %d: %v", userID, err)
	}
}

// sendResult снимает завершённую попытку с учёта и отправляет итог с PDF-отчётом.
// Попытка снимается до отправки сообщений: ошибка доставки не должна оставлять
// отправленную попытку в реестре.
func (h *SubmitHandler) sendResult(userID int64, run *session.Runner, passed bool, percentage float64) error {
	h.sessions.Remove(userID)

	verdict := "❌ Тест не сдан."
	if passed {
		verdict = "✅ Тест сдан!"
	}
	resultText := fmt.Sprintf("Тест завершен! Ваш результат: %.1f%%\n%s", percentage, verdict)

	_, err := h.bot.Send(&telebot.User{ID: userID}, resultText)
	if err != nil {
		return fmt.Errorf("failed to send result message: %w", err)
	}

	h.sendReport(userID, run, passed, percentage)
	return nil
}

// sendReport формирует PDF-отчёт по попытке и отправляет его документом.
// Ошибка отчёта не мешает завершению теста, только логируется.
func (h *SubmitHandler) sendReport(userID int64, run *session.Runner, passed bool, percentage float64) {
	ctx := context.Background()

	user, err := h.users.GetUserByTelegramID(ctx, userID)
	if err != nil || user == nil {
		log.Printf("Failed to get user %d for report: %v", userID, err)
		return
	}

	total := run.TotalQuestions()
	questions := make([]model.TestQuestion, 0, total)
	answers := make(map[string][]string, total)
	for i := 0; i < total; i++ {
		q, err := run.QuestionAt(i)
		if err != nil {
			continue
		}
		questions = append(questions, q)
		if selected := run.Selected(q.ID); len(selected) > 0 {
			answers[q.ID] = selected
		}
	}

	firstName := ""
	if user.TelegramFirstName != nil {
		firstName = *user.TelegramFirstName
	}

	filename, err := report.GeneratePDFReport(report.ReportData{
		UserID:            userID,
		TelegramFirstName: firstName,
		TelegramUsername:  user.TelegramUsername,
		TestName:          run.TestName(),
		Passed:            passed,
		Percentage:        percentage,
		Questions:         questions,
		Answers:           answers,
	})
	if err != nil {
		log.Printf("Failed to generate report for user %d: %v", userID, err)
		return
	}
	defer os.Remove(filename)

	doc := &telebot.Document{File: telebot.FromDisk(filename), FileName: filename}
	if _, err := h.bot.Send(&telebot.User{ID: userID}, doc); err != nil {
		log.Printf("Failed to send report to user %d: %v", userID, err)
	}
}
