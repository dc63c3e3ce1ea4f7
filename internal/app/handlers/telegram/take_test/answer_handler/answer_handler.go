package answer_handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/questionview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// AnswerHandler обрабатывает выбор варианта ответа. Для вопроса с одним ответом
// повторный выбор заменяет предыдущий, для вопроса с несколькими — переключает отметку.
// Автоперехода к следующему вопросу нет: пользователь двигается кнопками навигации.
type AnswerHandler struct {
	sessions *session.Registry
}

func NewAnswerHandler(sessions *session.Registry) *AnswerHandler {
	return &AnswerHandler{sessions: sessions}
}

func (h *AnswerHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID
	callbackData := c.Callback().Data

	// Очищаем callbackData от нестандартных символов
	cleanedData := strings.TrimSpace(callbackData)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	if !strings.HasPrefix(cleanedData, "answer_") {
		return nil
	}

	// Парсим callback данные (answer_questionIndex_choiceIndex)
	parts := strings.Split(cleanedData, "_")
	if len(parts) != 3 {
		return fmt.Errorf("invalid callback data: %s", callbackData)
	}

	questionIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("invalid question index: %w", err)
	}

	choiceIndex, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("invalid choice index: %w", err)
	}

	run, ok := h.sessions.Get(userID)
	if !ok {
		return c.Send("Тест не найден. Пожалуйста, начните тест заново.")
	}

	question, err := run.QuestionAt(questionIndex)
	if err != nil {
		return fmt.Errorf("failed to get question: %w", err)
	}
	if choiceIndex < 0 || choiceIndex >= len(question.Choices) {
		return fmt.Errorf("invalid choice index %d for question %s", choiceIndex, question.ID)
	}

	if err := run.Answer(question.ID, question.Choices[choiceIndex].Label); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}

	// Перерисовываем вопрос с актуальными отметками
	text, markup := questionview.Render(run)
	if err := c.Edit(text, markup, telebot.ModeMarkdown); err != nil &&
		!strings.Contains(err.Error(), "message is not modified") {
		return fmt.Errorf("failed to update question message: %w", err)
	}

	return c.Respond(&telebot.CallbackResponse{})
}
