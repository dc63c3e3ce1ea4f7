package session

import (
	"context"
	"testing"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// TestRegistry_ReplaceStopsOldTimer проверяет, что регистрация новой попытки
// для того же чата останавливает таймер предыдущей.
func TestRegistry_ReplaceStopsOldTimer(t *testing.T) {
	reg := NewRegistry()

	questions := []model.TestQuestion{{ID: "q1", Kind: model.KindSingle}}
	old := NewRunner("inst-old", questions, 1, nil)
	_, cancel := context.WithCancel(context.Background())
	cancelled := false
	old.BindTimer(func() { cancelled = true; cancel() })

	reg.Put(42, old)
	reg.Put(42, NewRunner("inst-new", questions, 1, nil))

	if !cancelled {
		t.Error("таймер предыдущей попытки не был остановлен при замене")
	}

	got, ok := reg.Get(42)
	if !ok || got.InstanceID() != "inst-new" {
		t.Errorf("в реестре ожидалась новая попытка, получено %+v", got)
	}
}

// TestRegistry_RemoveStopsTimer проверяет безусловную остановку таймера при снятии с учёта.
func TestRegistry_RemoveStopsTimer(t *testing.T) {
	reg := NewRegistry()

	r := NewRunner("inst-1", []model.TestQuestion{{ID: "q1", Kind: model.KindSingle}}, 1, nil)
	_, cancel := context.WithCancel(context.Background())
	cancelled := false
	r.BindTimer(func() { cancelled = true; cancel() })

	reg.Put(7, r)
	reg.Remove(7)

	if !cancelled {
		t.Error("таймер не был остановлен при снятии попытки с учёта")
	}
	if _, ok := reg.Get(7); ok {
		t.Error("попытка осталась в реестре после удаления")
	}
	if r.Status() != StatusStopped {
		t.Errorf("ожидалось состояние %s, получено %s", StatusStopped, r.Status())
	}
}

// TestRegistry_Snapshot проверяет срез состояния активных попыток для отчёта.
func TestRegistry_Snapshot(t *testing.T) {
	reg := NewRegistry()

	questions := []model.TestQuestion{
		{ID: "q1", Kind: model.KindSingle},
		{ID: "q2", Kind: model.KindMultiple},
	}
	r := NewRunner("inst-1", questions, 2, nil)
	if err := r.Answer("q1", "a"); err != nil {
		t.Fatalf("Answer вернул ошибку: %v", err)
	}
	reg.Put(1, r)

	infos := reg.Snapshot()
	if len(infos) != 1 {
		t.Fatalf("ожидалась 1 активная попытка, получено %d", len(infos))
	}
	info := infos[0]
	if info.ChatID != 1 || info.InstanceID != "inst-1" {
		t.Errorf("неожиданные идентификаторы: %+v", info)
	}
	if info.AnsweredCount != 1 || info.TotalQuestions != 2 {
		t.Errorf("неожиданный прогресс: %+v", info)
	}
	if info.RemainingSeconds != 120 || info.Status != StatusRunning {
		t.Errorf("неожиданное состояние таймера: %+v", info)
	}
}
