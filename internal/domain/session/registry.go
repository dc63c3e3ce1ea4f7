package session

import "sync"

// Registry хранит активные попытки по идентификатору чата.
// На один чат приходится не более одной активной попытки с собственным таймером.
type Registry struct {
	mu      sync.RWMutex
	runners map[int64]*Runner
}

// NewRegistry создаёт пустой реестр активных попыток.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[int64]*Runner)}
}

// Get возвращает активную попытку для чата, если она есть.
func (reg *Registry) Get(chatID int64) (*Runner, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.runners[chatID]
	return r, ok
}

// Put регистрирует попытку для чата. Если для чата уже была попытка,
// её таймер останавливается, чтобы старая горутина не продолжала тикать.
func (reg *Registry) Put(chatID int64, r *Runner) {
	reg.mu.Lock()
	old, ok := reg.runners[chatID]
	reg.runners[chatID] = r
	reg.mu.Unlock()
	if ok && old != r {
		old.Stop()
	}
}

// Remove снимает попытку с учёта и останавливает её таймер.
func (reg *Registry) Remove(chatID int64) {
	reg.mu.Lock()
	r, ok := reg.runners[chatID]
	delete(reg.runners, chatID)
	reg.mu.Unlock()
	if ok {
		r.Stop()
	}
}

// Info описывает активную попытку для отчёта по работающим сессиям.
type Info struct {
	ChatID           int64  `json:"chat_id"`
	InstanceID       string `json:"instance_id"`
	CurrentQuestion  int    `json:"current_question"`
	AnsweredCount    int    `json:"answered_count"`
	TotalQuestions   int    `json:"total_questions"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Status           Status `json:"status"`
}

// Snapshot возвращает срез состояния всех активных попыток.
func (reg *Registry) Snapshot() []Info {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	infos := make([]Info, 0, len(reg.runners))
	for chatID, r := range reg.runners {
		current, total := r.Progress()
		infos = append(infos, Info{
			ChatID:           chatID,
			InstanceID:       r.InstanceID(),
			CurrentQuestion:  current,
			AnsweredCount:    r.AnsweredCount(),
			TotalQuestions:   total,
			RemainingSeconds: r.Remaining(),
			Status:           r.Status(),
		})
	}
	return infos
}
