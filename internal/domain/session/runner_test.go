package session

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// Проверяемые сценарии:
// 1. Тест без лимита времени: таймер не запускается, автоотправка не срабатывает никогда.
// 2. Тест с лимитом: оставшееся время убывает ровно на 1 каждую секунду до нуля,
//    в момент нуля уходит ровно одна отправка.
// 3. Двойное переключение варианта множественного выбора возвращает набор к исходному состоянию.
// 4. Выбор варианта B после A для одиночного вопроса оставляет ровно B.
// 5. Ручная отправка до истечения времени: одна отправка, автоотправка после неё не срабатывает.
// 6. Истечение времени без ответов: одна отправка с пустой картой, повторный тик не даёт дубликата.
// 7. Навигация вперёд-назад сохраняет ответы.
// 8. Ошибка отправки не сбрасывает ответы и позволяет повторить вручную.

// newTestRunner создаёт попытку с двумя вопросами и счётчиком вызовов отправки.
func newTestRunner(timeLimitMinutes int, submitCalls *[]map[string]any, submitErr error) *Runner {
	questions := []model.TestQuestion{
		{
			ID:         "q1",
			Text:       "Какой знак запрещает стоянку?",
			Kind:       model.KindSingle,
			Choices:    []model.Choice{{Label: "3.27"}, {Label: "3.28"}, {Label: "2.5"}},
			OrderIndex: 0,
		},
		{
			ID:         "q2",
			Text:       "В каких случаях разрешён обгон?",
			Kind:       model.KindMultiple,
			Choices:    []model.Choice{{Label: "Вне перекрёстка"}, {Label: "На переезде"}, {Label: "При свободной встречной"}},
			OrderIndex: 1,
		},
	}
	submit := func(ctx context.Context, instanceID string, answers map[string]any) (model.TestResult, error) {
		*submitCalls = append(*submitCalls, answers)
		if submitErr != nil {
			return model.TestResult{}, submitErr
		}
		return model.TestResult{Passed: true, Percentage: 100}, nil
	}
	return NewRunner("inst-1", questions, timeLimitMinutes, submit)
}

// TestUntimed_NoCountdown проверяет, что без лимита времени таймер не запускается
// и тики никогда не приводят к автоотправке.
func TestUntimed_NoCountdown(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	if r.Status() != StatusUntimed {
		t.Fatalf("ожидалось состояние %s, получено %s", StatusUntimed, r.Status())
	}

	for i := 0; i < 120; i++ {
		if _, expired := r.Tick(); expired {
			t.Fatalf("автоотправка сработала для теста без лимита (тик %d)", i)
		}
	}
	if len(calls) != 0 {
		t.Errorf("ожидалось 0 отправок, получено %d", len(calls))
	}
}

// TestCountdown_DecrementsToExpiry проверяет строгое убывание времени на 1 за тик
// и ровно одну автоотправку в момент достижения нуля.
func TestCountdown_DecrementsToExpiry(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(1, &calls, nil)

	if r.Remaining() != 60 {
		t.Fatalf("ожидалось 60 секунд, получено %d", r.Remaining())
	}

	for want := 59; want > 0; want-- {
		remaining, expired := r.Tick()
		if expired {
			t.Fatalf("автоотправка сработала раньше нуля (осталось %d)", remaining)
		}
		if remaining != want {
			t.Fatalf("ожидалось %d секунд, получено %d", want, remaining)
		}
	}

	remaining, expired := r.Tick()
	if remaining != 0 || !expired {
		t.Fatalf("на нулевой секунде ожидалась автоотправка, получено remaining=%d expired=%v", remaining, expired)
	}
	if r.Status() != StatusExpiredSubmitting {
		t.Errorf("ожидалось состояние %s, получено %s", StatusExpiredSubmitting, r.Status())
	}

	if _, err := r.Submit(context.Background()); err != nil {
		t.Fatalf("Submit вернул ошибку: %v", err)
	}
	if len(calls) != 1 {
		t.Errorf("ожидалась 1 отправка, получено %d", len(calls))
	}
}

// TestMultiSelect_DoubleToggle проверяет идемпотентность двойного переключения варианта.
func TestMultiSelect_DoubleToggle(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	if err := r.Answer("q2", "На переезде"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if got := r.Selected("q2"); !reflect.DeepEqual(got, []string{"На переезде"}) {
		t.Fatalf("ожидался выбор [На переезде], получено %v", got)
	}
	if r.AnsweredCount() != 1 {
		t.Errorf("ожидался 1 отвеченный вопрос, получено %d", r.AnsweredCount())
	}

	if err := r.Answer("q2", "На переезде"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if got := r.Selected("q2"); len(got) != 0 {
		t.Errorf("после двойного переключения ожидался пустой набор, получено %v", got)
	}
	// Ключ снятого вопроса удаляется из карты целиком.
	if r.AnsweredCount() != 0 {
		t.Errorf("ожидалось 0 отвеченных вопросов, получено %d", r.AnsweredCount())
	}
}

// TestSingleSelect_LastWriteWins проверяет, что выбор B после A оставляет ровно B.
func TestSingleSelect_LastWriteWins(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	if err := r.Answer("q1", "3.27"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if err := r.Answer("q1", "3.28"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if got := r.Selected("q1"); !reflect.DeepEqual(got, []string{"3.28"}) {
		t.Errorf("ожидался ровно один выбор [3.28], получено %v", got)
	}
}

// TestManualSubmit_StopsAutoSubmit: пользователь отвечает на оба вопроса за первые
// секунды и отправляет вручную — уходит ровно одна отправка с обоими ответами,
// автоотправка после остановки таймера не срабатывает.
func TestManualSubmit_StopsAutoSubmit(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(1, &calls, nil)

	for i := 0; i < 10; i++ {
		r.Tick()
	}
	if err := r.Answer("q1", "3.27"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if err := r.Answer("q2", "Вне перекрёстка"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}

	result, err := r.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit вернул ошибку: %v", err)
	}
	if !result.Passed || result.Percentage != 100 {
		t.Errorf("неожиданный итог: %+v", result)
	}
	if r.Status() != StatusStopped {
		t.Errorf("ожидалось состояние %s, получено %s", StatusStopped, r.Status())
	}

	// Таймер остановлен: даже если тики продолжат приходить, автоотправки не будет.
	for i := 0; i < 120; i++ {
		if _, expired := r.Tick(); expired {
			t.Fatalf("автоотправка сработала после успешной ручной отправки")
		}
	}
	if len(calls) != 1 {
		t.Errorf("ожидалась 1 отправка, получено %d", len(calls))
	}

	want := map[string]any{"q1": "3.27", "q2": []string{"Вне перекрёстка"}}
	if !reflect.DeepEqual(calls[0], want) {
		t.Errorf("срез ответов не совпал: ожидалось %v, получено %v", want, calls[0])
	}

	// Повторная отправка по завершённой попытке отклоняется.
	if _, err := r.Submit(context.Background()); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("ожидалась ошибка %v, получено %v", ErrAlreadySubmitted, err)
	}
}

// TestExpiry_EmptyAnswers: время выходит без единого ответа — уходит ровно одна
// отправка с пустой картой, повторный тик после истечения не даёт второй автоотправки.
func TestExpiry_EmptyAnswers(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(1, &calls, nil)

	var fired int
	for i := 0; i < 65; i++ {
		if _, expired := r.Tick(); expired {
			fired++
			if _, err := r.Submit(context.Background()); err != nil {
				t.Fatalf("автоотправка вернула ошибку: %v", err)
			}
		}
	}
	if fired != 1 {
		t.Fatalf("автоотправка должна сработать ровно один раз, сработала %d", fired)
	}
	if len(calls) != 1 {
		t.Fatalf("ожидалась 1 отправка, получено %d", len(calls))
	}
	if len(calls[0]) != 0 {
		t.Errorf("ожидалась пустая карта ответов, получено %v", calls[0])
	}
}

// TestNavigation_PreservesAnswers проверяет границы навигации и сохранность ответов
// при переходе вперёд и обратно.
func TestNavigation_PreservesAnswers(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	// На первом вопросе переход назад — пустая операция.
	if r.Prev() {
		t.Error("Prev на первом вопросе должен быть пустой операцией")
	}

	if err := r.Answer("q1", "2.5"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	if !r.Next() {
		t.Fatal("Next с первого вопроса должен переходить дальше")
	}
	// На последнем вопросе переход вперёд — пустая операция.
	if r.Next() {
		t.Error("Next на последнем вопросе должен быть пустой операцией")
	}
	if !r.Prev() {
		t.Fatal("Prev со второго вопроса должен возвращать назад")
	}

	q, idx := r.Current()
	if idx != 0 || q.ID != "q1" {
		t.Fatalf("ожидался возврат к вопросу q1, получен %s (индекс %d)", q.ID, idx)
	}
	if got := r.Selected("q1"); !reflect.DeepEqual(got, []string{"2.5"}) {
		t.Errorf("ответ на вопрос 1 потерян при навигации: %v", got)
	}

	current, total := r.Progress()
	if current != 1 || total != 2 {
		t.Errorf("ожидался прогресс 1/2, получено %d/%d", current, total)
	}
}

// TestSubmitFailure_KeepsAnswersAndAllowsRetry проверяет, что ошибка отправки
// не трогает ответы, не повторяется автоматически и допускает ручной повтор.
func TestSubmitFailure_KeepsAnswersAndAllowsRetry(t *testing.T) {
	var calls []map[string]any
	submitErr := errors.New("бекенд недоступен")
	r := newTestRunner(1, &calls, submitErr)

	if err := r.Answer("q1", "3.27"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}

	// Доводим таймер до нуля и выполняем автоотправку, которая завершается ошибкой.
	for i := 0; i < 60; i++ {
		r.Tick()
	}
	if _, err := r.Submit(context.Background()); !errors.Is(err, submitErr) {
		t.Fatalf("ожидалась ошибка отправки, получено %v", err)
	}

	// Состояние не изменилось, таймер не возобновляется, автоповтора нет.
	if r.Status() != StatusExpiredSubmitting {
		t.Errorf("ожидалось состояние %s, получено %s", StatusExpiredSubmitting, r.Status())
	}
	for i := 0; i < 10; i++ {
		if _, expired := r.Tick(); expired {
			t.Fatal("после истечения времени автоотправка не должна повторяться")
		}
	}

	// Ответы сохранены: ручной повтор отправляет тот же срез.
	if _, err := r.Submit(context.Background()); !errors.Is(err, submitErr) {
		t.Fatalf("ожидалась ошибка отправки при повторе, получено %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("ожидалось 2 отправки, получено %d", len(calls))
	}
	if !reflect.DeepEqual(calls[0], calls[1]) {
		t.Errorf("срезы ответов при повторе разошлись: %v и %v", calls[0], calls[1])
	}
}

// TestQuestionsSortedByOrderIndex проверяет, что вопросы упорядочиваются по OrderIndex бекенда.
func TestQuestionsSortedByOrderIndex(t *testing.T) {
	questions := []model.TestQuestion{
		{ID: "b", Kind: model.KindSingle, OrderIndex: 2},
		{ID: "a", Kind: model.KindSingle, OrderIndex: 1},
		{ID: "c", Kind: model.KindSingle, OrderIndex: 3},
	}
	r := NewRunner("inst-2", questions, 0, nil)

	var ids []string
	for i := 0; i < r.TotalQuestions(); i++ {
		q, _ := r.QuestionAt(i)
		ids = append(ids, q.ID)
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("вопросы не упорядочены по OrderIndex: %v", ids)
	}
}

// TestTestName_SafeAcrossGoroutines проверяет, что название теста читается
// горутиной таймера одновременно с записью из обработчика без гонок.
func TestTestName_SafeAcrossGoroutines(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	r.SetTestName("ПДД: знаки приоритета")
	if got := r.TestName(); got != "ПДД: знаки приоритета" {
		t.Fatalf("ожидалось название 'ПДД: знаки приоритета', получено %q", got)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.SetTestName("ПДД: знаки приоритета")
		}()
		go func() {
			defer wg.Done()
			_ = r.TestName()
		}()
	}
	wg.Wait()

	if got := r.TestName(); got != "ПДД: знаки приоритета" {
		t.Errorf("название потеряно после конкурентного доступа: %q", got)
	}
}

// TestAnswer_UnknownQuestion проверяет ошибку при ответе на чужой вопрос.
func TestAnswer_UnknownQuestion(t *testing.T) {
	var calls []map[string]any
	r := newTestRunner(0, &calls, nil)

	if err := r.Answer("нет-такого", "x"); !errors.Is(err, ErrUnknownQuestion) {
		t.Errorf("ожидалась ошибка %v, получено %v", ErrUnknownQuestion, err)
	}
}
