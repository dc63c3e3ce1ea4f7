package timer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"gopkg.in/telebot.v4"
)

type Updater struct {
	bot *telebot.Bot
}

func NewTimerUpdater(bot *telebot.Bot) *Updater {
	return &Updater{bot: bot}
}

// Run обновляет сообщение с таймером раз в секунду, пока попытка активна.
// Обратный отсчёт ведёт сама попытка: горутина только вызывает Tick и отрисовывает результат.
// Когда Tick сообщает об истечении времени, горутина показывает финальное сообщение,
// вызывает onExpire ровно один раз и завершается.
func (tu *Updater) Run(ctx context.Context, userID int64, messageID int, run *session.Runner, onExpire func()) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Контекст отменен, завершаем обновление таймера
			log.Printf("Timer update canceled for user %d", userID)
			return
		case <-ticker.C:
			remaining, expired := run.Tick()
			if expired {
				// Время вышло, показываем финальное сообщение и запускаем автоотправку
				_, err := tu.bot.Edit(&telebot.Message{
					ID:   messageID,
					Chat: &telebot.Chat{ID: userID},
				}, "⏰ Время вышло! Отправляем ваши ответы...")
				if err != nil {
					log.Printf("Failed to update timer message for user %d: %v", userID, err)
				}
				onExpire()
				return
			}

			// Если попытка уже завершена другим путём, прекращаем обновление таймера
			switch run.Status() {
			case session.StatusStopped, session.StatusExpiredSubmitting:
				log.Printf("Test session already finished for user %d", userID)
				return
			}

			// Вычисляем минуты и секунды
			minutes := remaining / 60
			seconds := remaining % 60
			current, total := run.Progress()

			// Формируем текст сообщения с таймером и номером вопроса
			timerText := fmt.Sprintf(
				"⏰ Оставшееся время: %02d:%02d, Вопрос %d/%d",
				minutes, seconds, current, total,
			)

			// Обновляем сообщение с таймером
			_, err := tu.bot.Edit(&telebot.Message{
				ID:   messageID,
				Chat: &telebot.Chat{ID: userID},
			}, timerText)
			if err != nil && !strings.Contains(err.Error(), "message is not modified") {
				log.Printf("Failed to update timer message for user %d: %v", userID, err)
			}
		}
	}
}
