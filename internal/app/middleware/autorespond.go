package middleware

import (
	tele "gopkg.in/telebot.v4"
)

// AutoRespond возвращает middleware, которое отвечает на каждый callback после
// его обработки. Telegram перестаёт показывать «часики» на кнопке, даже если
// обработчик забыл вызвать Respond; повторный ответ телеграм молча игнорирует.
func AutoRespond() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil {
				defer c.Respond()
			}
			return next(c)
		}
	}
}
