package nav_handler

import (
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/questionview"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// NavHandler обрабатывает линейную навигацию по вопросам.
// На границах списка переход не выполняется, ответы при навигации сохраняются.
type NavHandler struct {
	sessions *session.Registry
}

func NewNavHandler(sessions *session.Registry) *NavHandler {
	return &NavHandler{sessions: sessions}
}

func (h *NavHandler) Handle(c telebot.Context) error {
	userID := c.Sender().ID

	cleanedData := strings.TrimSpace(c.Callback().Data)
	cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
	cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

	run, ok := h.sessions.Get(userID)
	if !ok {
		return c.Send("Тест не найден. Пожалуйста, начните тест заново.")
	}

	var moved bool
	switch cleanedData {
	case "nav_next":
		moved = run.Next()
		if !moved {
			return c.Respond(&telebot.CallbackResponse{Text: "Это последний вопрос."})
		}
	case "nav_prev":
		moved = run.Prev()
		if !moved {
			return c.Respond(&telebot.CallbackResponse{Text: "Это первый вопрос."})
		}
	default:
		return nil
	}

	text, markup := questionview.Render(run)
	if err := c.Edit(text, markup, telebot.ModeMarkdown); err != nil &&
		!strings.Contains(err.Error(), "message is not modified") {
		return err
	}
	return c.Respond(&telebot.CallbackResponse{})
}
