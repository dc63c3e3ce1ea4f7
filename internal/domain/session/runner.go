package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// Status описывает состояние попытки прохождения теста.
type Status string

const (
	// StatusUntimed — тест без лимита времени, таймер не запускается.
	StatusUntimed Status = "untimed"
	// StatusRunning — таймер активен и уменьшается раз в секунду.
	StatusRunning Status = "running"
	// StatusExpiredSubmitting — время вышло, автоотправка ответов выполняется.
	StatusExpiredSubmitting Status = "expired_submitting"
	// StatusStopped — таймер остановлен после успешной отправки или завершения сессии.
	StatusStopped Status = "stopped"
)

var (
	// ErrSubmitInFlight возвращается при попытке отправить ответы, пока предыдущая отправка не завершилась.
	ErrSubmitInFlight = errors.New("отправка ответов уже выполняется")
	// ErrAlreadySubmitted возвращается, если ответы по этой попытке уже были успешно отправлены.
	ErrAlreadySubmitted = errors.New("ответы уже отправлены")
	// ErrUnknownQuestion возвращается при ответе на вопрос, которого нет в попытке.
	ErrUnknownQuestion = errors.New("вопрос не найден в текущей попытке")
)

// SubmitFunc отправляет срез ответов на бекенд и возвращает итог попытки.
// Значения в answers: string для вопросов с одним ответом, []string для вопросов с несколькими.
type SubmitFunc func(ctx context.Context, instanceID string, answers map[string]any) (model.TestResult, error)

// Runner представляет одну попытку прохождения теста: вопросы, карту ответов,
// обратный отсчёт и защиту от повторной отправки. Вопросы фиксируются при создании
// и не изменяются; всё состояние живёт только в памяти до конца сессии.
type Runner struct {
	mu sync.Mutex

	instanceID string
	testName   string
	questions  []model.TestQuestion
	kinds      map[string]model.QuestionKind

	timeLimit int // лимит в секундах; 0 — без лимита
	remaining int
	status    Status

	index   int
	answers map[string][]string

	submitting    bool // отправка в полёте: блокирует и ручную, и автоматическую отправку
	autoSubmitted bool // одноразовый признак: автоотправка по таймеру срабатывает не более одного раза
	submitted     bool

	submit      SubmitFunc
	cancelTimer context.CancelFunc
}

// NewRunner создаёт попытку по данным бекенда. timeLimitMinutes == 0 означает тест без лимита.
// Вопросы упорядочиваются по OrderIndex и далее не меняются.
func NewRunner(instanceID string, questions []model.TestQuestion, timeLimitMinutes int, submit SubmitFunc) *Runner {
	qs := make([]model.TestQuestion, len(questions))
	copy(qs, questions)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].OrderIndex < qs[j].OrderIndex })

	kinds := make(map[string]model.QuestionKind, len(qs))
	for _, q := range qs {
		kinds[q.ID] = q.Kind
	}

	r := &Runner{
		instanceID: instanceID,
		questions:  qs,
		kinds:      kinds,
		answers:    make(map[string][]string),
		submit:     submit,
		status:     StatusUntimed,
	}
	if timeLimitMinutes > 0 {
		r.timeLimit = timeLimitMinutes * 60
		r.remaining = r.timeLimit
		r.status = StatusRunning
	}
	return r
}

// InstanceID возвращает идентификатор попытки, выданный бекендом.
func (r *Runner) InstanceID() string {
	return r.instanceID
}

// SetTestName сохраняет название теста для сообщений и отчёта.
// Название читается и горутиной таймера, поэтому живёт под мьютексом попытки.
func (r *Runner) SetTestName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.testName = name
}

// TestName возвращает название теста этой попытки.
func (r *Runner) TestName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.testName
}

// Status возвращает текущее состояние таймера попытки.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Remaining возвращает оставшееся время в секундах. Для теста без лимита всегда 0.
func (r *Runner) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// TotalQuestions возвращает количество вопросов в попытке.
func (r *Runner) TotalQuestions() int {
	return len(r.questions)
}

// Current возвращает текущий вопрос и его индекс.
func (r *Runner) Current() (model.TestQuestion, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.questions[r.index], r.index
}

// QuestionAt возвращает вопрос по индексу.
func (r *Runner) QuestionAt(idx int) (model.TestQuestion, error) {
	if idx < 0 || idx >= len(r.questions) {
		return model.TestQuestion{}, fmt.Errorf("индекс вопроса %d вне диапазона", idx)
	}
	return r.questions[idx], nil
}

// Next переходит к следующему вопросу. На последнем вопросе ничего не делает.
// Ответы при навигации не сбрасываются.
func (r *Runner) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= len(r.questions)-1 {
		return false
	}
	r.index++
	return true
}

// Prev переходит к предыдущему вопросу. На первом вопросе ничего не делает.
func (r *Runner) Prev() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index <= 0 {
		return false
	}
	r.index--
	return true
}

// Answer фиксирует выбор варианта для вопроса. Для вопроса с одним ответом выбор
// заменяет предыдущий; для вопроса с несколькими — переключает членство варианта
// в наборе выбранных. Пустой набор удаляется из карты ответов целиком.
// Количество выбранных вариантов не проверяется: правильность оценивает бекенд.
func (r *Runner) Answer(questionID, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind, ok := r.kinds[questionID]
	if !ok {
		return ErrUnknownQuestion
	}

	if kind == model.KindSingle {
		r.answers[questionID] = []string{label}
		return nil
	}

	selected := r.answers[questionID]
	for i, l := range selected {
		if l == label {
			// Повторный выбор снимает отметку.
			selected = append(selected[:i], selected[i+1:]...)
			if len(selected) == 0 {
				delete(r.answers, questionID)
			} else {
				r.answers[questionID] = selected
			}
			return nil
		}
	}
	r.answers[questionID] = append(selected, label)
	return nil
}

// Selected возвращает копию выбранных вариантов для вопроса.
func (r *Runner) Selected(questionID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	selected := r.answers[questionID]
	out := make([]string, len(selected))
	copy(out, selected)
	return out
}

// AnsweredCount возвращает количество вопросов, на которые дан хотя бы один ответ.
// Значение всегда выводится из карты ответов и нигде отдельно не хранится.
func (r *Runner) AnsweredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.answers)
}

// Progress возвращает номер текущего вопроса (с единицы) и общее количество вопросов.
func (r *Runner) Progress() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index + 1, len(r.questions)
}

// Tick уменьшает оставшееся время на одну секунду. Вызывается горутиной таймера раз в секунду.
// Возвращает оставшееся время и признак того, что прямо сейчас нужно выполнить автоотправку.
// Переход в автоотправку срабатывает ровно один раз: одноразовый признак защищает от
// повторного вызова, даже если тик успеет прийти ещё раз до остановки таймера.
// Если в момент истечения времени уже выполняется ручная отправка, автоотправка не запускается.
func (r *Runner) Tick() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusRunning || r.remaining == 0 {
		return r.remaining, false
	}

	r.remaining--
	if r.remaining > 0 {
		return r.remaining, false
	}

	if r.submitting || r.autoSubmitted {
		return 0, false
	}
	r.autoSubmitted = true
	r.status = StatusExpiredSubmitting
	return 0, true
}

// Submit отправляет текущий срез ответов на бекенд. За одну попытку уходит не более
// одной успешной отправки; параллельная отправка отклоняется, а не отменяется.
// При ошибке состояние не меняется и ответы сохраняются — пользователь может повторить вручную.
func (r *Runner) Submit(ctx context.Context) (model.TestResult, error) {
	r.mu.Lock()
	if r.submitted {
		r.mu.Unlock()
		return model.TestResult{}, ErrAlreadySubmitted
	}
	if r.submitting {
		r.mu.Unlock()
		return model.TestResult{}, ErrSubmitInFlight
	}
	r.submitting = true
	snapshot := r.snapshotLocked()
	instanceID := r.instanceID
	submit := r.submit
	r.mu.Unlock()

	result, err := submit(ctx, instanceID, snapshot)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitting = false
	if err != nil {
		return model.TestResult{}, err
	}

	r.submitted = true
	r.status = StatusStopped
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
	return result, nil
}

// Submitted сообщает, были ли ответы уже успешно отправлены.
func (r *Runner) Submitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitted
}

// snapshotLocked формирует срез ответов в формате бекенда:
// строка для одиночного выбора, срез строк для множественного.
func (r *Runner) snapshotLocked() map[string]any {
	snapshot := make(map[string]any, len(r.answers))
	for id, labels := range r.answers {
		if r.kinds[id] == model.KindSingle {
			snapshot[id] = labels[0]
			continue
		}
		out := make([]string, len(labels))
		copy(out, labels)
		snapshot[id] = out
	}
	return snapshot
}

// BindTimer привязывает функцию отмены горутины таймера к попытке.
// Владелец таймера ровно один — сама попытка.
func (r *Runner) BindTimer(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelTimer = cancel
}

// Stop безусловно останавливает таймер попытки. Вызывается при завершении сессии
// любым путём, чтобы не оставлять осиротевших горутин.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
	if r.status == StatusRunning {
		r.status = StatusStopped
	}
}
