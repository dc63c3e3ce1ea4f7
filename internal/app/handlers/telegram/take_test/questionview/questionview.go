package questionview

import (
	"fmt"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// Render формирует текст и клавиатуру для текущего вопроса попытки.
// Выбранные варианты отмечаются галочкой; под вариантами располагаются
// кнопки навигации и кнопка завершения теста.
func Render(run *session.Runner) (string, *telebot.ReplyMarkup) {
	question, index := run.Current()
	_, total := run.Progress()
	selected := run.Selected(question.ID)

	var messageBuilder strings.Builder
	messageBuilder.WriteString(fmt.Sprintf("❓ *Вопрос %d/%d:*\n%s\n", index+1, total, question.Text))
	if question.Kind == model.KindMultiple {
		messageBuilder.WriteString("\n_Можно выбрать несколько вариантов._\n")
	}
	messageBuilder.WriteString(fmt.Sprintf("\nОтвечено: %d/%d", run.AnsweredCount(), total))

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(question.Choices)+2)

	for i, choice := range question.Choices {
		btnText := fmt.Sprintf("%d. %s", i+1, choice.Label)
		if isSelected(selected, choice.Label) {
			btnText = "✅ " + btnText
		}
		callbackData := fmt.Sprintf("answer_%d_%d", index, i)
		rows = append(rows, markup.Row(markup.Data(btnText, callbackData)))
	}

	rows = append(rows, markup.Row(
		markup.Data("⬅️ Назад", "nav_prev"),
		markup.Data("Вперёд ➡️", "nav_next"),
	))
	rows = append(rows, markup.Row(markup.Data("📤 Завершить тест", "submit_request")))
	markup.Inline(rows...)

	return messageBuilder.String(), markup
}

func isSelected(selected []string, label string) bool {
	for _, l := range selected {
		if l == label {
			return true
		}
	}
	return false
}
