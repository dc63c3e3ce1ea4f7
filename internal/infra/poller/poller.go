package poller

import (
	"log"
	"time"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// NewPoller создаёт Poller в зависимости от режима.
func NewPoller(cfg *config.Config) telebot.Poller {
	if cfg.TelegramBot.Mode == "webhook" {
		if cfg.TelegramBot.WebhookURL == "" {
			log.Fatalf("В режиме webhook переменная WEBHOOK_URL должна быть задана")
		}
		return &telebot.Webhook{
			Listen: cfg.TelegramBot.WebhookListen,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: cfg.TelegramBot.WebhookURL,
			},
		}
	}

	interval := cfg.TelegramBot.PollIntervalSeconds
	if interval <= 0 {
		interval = 10
	}
	return &telebot.LongPoller{Timeout: time.Duration(interval) * time.Second}
}
