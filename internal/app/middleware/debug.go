package middleware

import (
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"gopkg.in/telebot.v4"
)

// DebugUserActions возвращает middleware, которое при включённом режиме отладки отправляет
// пользователю отладочное сообщение: ID, действие и состояние активной попытки теста, если она есть.
func DebugUserActions(enabled bool, sessions *session.Registry) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			err := next(c)
			if enabled {
				user := c.Sender()
				if user == nil {
					return err
				}

				sessionInfo := "none"
				if run, ok := sessions.Get(user.ID); ok {
					current, total := run.Progress()
					sessionInfo = fmt.Sprintf("%s, question %d/%d, %ds left",
						run.Status(), current, total, run.Remaining())
				}

				var action string
				if msg := c.Message(); msg != nil {
					action = "Message: " + msg.Text
				} else if cb := c.Callback(); cb != nil {
					action = "Callback: " + cb.Data
				} else {
					action = "Unknown action"
				}

				debugMsg := fmt.Sprintf("DEBUG: User: %s (ID: %d), Session: %s, Action: %s",
					user.FirstName, user.ID, sessionInfo, action)
				go c.Bot().Send(user, debugMsg)
			}
			return err
		}
	}
}
