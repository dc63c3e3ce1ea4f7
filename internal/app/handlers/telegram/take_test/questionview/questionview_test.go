package questionview

import (
	"strings"
	"testing"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
)

func newRunner(t *testing.T) *session.Runner {
	t.Helper()
	questions := []model.TestQuestion{
		{
			ID:   "q1",
			Text: "Какой знак запрещает стоянку?",
			Kind: model.KindSingle,
			Choices: []model.Choice{
				{Label: "3.27"},
				{Label: "3.28"},
			},
			OrderIndex: 0,
		},
		{
			ID:   "q2",
			Text: "Где запрещена остановка?",
			Kind: model.KindMultiple,
			Choices: []model.Choice{
				{Label: "На переходе"},
				{Label: "В тоннеле"},
			},
			OrderIndex: 1,
		},
	}
	return session.NewRunner("inst-1", questions, 0, nil)
}

func TestRender_SelectedChoiceMarked(t *testing.T) {
	run := newRunner(t)

	// 1. Без ответа ни одна кнопка не отмечена.
	_, markup := Render(run)
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅") {
				t.Errorf("кнопка %q отмечена без ответа", btn.Text)
			}
		}
	}

	// 2. После выбора варианта кнопка получает отметку.
	if err := run.Answer("q1", "3.27"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	_, markup = Render(run)
	if !strings.HasPrefix(markup.InlineKeyboard[0][0].Text, "✅") {
		t.Errorf("выбранный вариант не отмечен: %q", markup.InlineKeyboard[0][0].Text)
	}
	if strings.HasPrefix(markup.InlineKeyboard[1][0].Text, "✅") {
		t.Errorf("невыбранный вариант отмечен: %q", markup.InlineKeyboard[1][0].Text)
	}
}

func TestRender_TextContainsProgress(t *testing.T) {
	run := newRunner(t)

	text, _ := Render(run)
	if !strings.Contains(text, "Вопрос 1/2") {
		t.Errorf("в тексте нет номера вопроса: %q", text)
	}
	if !strings.Contains(text, "Отвечено: 0/2") {
		t.Errorf("в тексте нет счётчика ответов: %q", text)
	}

	// После ответа и перехода счётчики обновляются.
	if err := run.Answer("q1", "3.27"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	run.Next()
	text, _ = Render(run)
	if !strings.Contains(text, "Вопрос 2/2") {
		t.Errorf("после перехода в тексте нет номера вопроса: %q", text)
	}
	if !strings.Contains(text, "Отвечено: 1/2") {
		t.Errorf("счётчик ответов не обновился: %q", text)
	}
	// Для вопроса с несколькими ответами выводится подсказка.
	if !strings.Contains(text, "несколько вариантов") {
		t.Errorf("нет подсказки про множественный выбор: %q", text)
	}
}

func TestRender_NavigationAndSubmitButtons(t *testing.T) {
	run := newRunner(t)

	_, markup := Render(run)
	rows := markup.InlineKeyboard
	if len(rows) != 4 {
		t.Fatalf("ожидалось 4 ряда кнопок, получено %d", len(rows))
	}

	navRow := rows[2]
	if len(navRow) != 2 {
		t.Fatalf("ожидалось 2 кнопки навигации, получено %d", len(navRow))
	}
	submitRow := rows[3]
	if len(submitRow) != 1 || !strings.Contains(submitRow[0].Text, "Завершить") {
		t.Errorf("нет кнопки завершения теста: %+v", submitRow)
	}
}
