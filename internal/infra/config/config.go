package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token               string `yaml:"token"`
		Username            string `yaml:"username"`
		Mode                string `yaml:"mode"`
		WebhookURL          string `yaml:"webhook_url"`
		WebhookListen       string `yaml:"webhook_listen"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		Debug               bool   `yaml:"debug"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	SchoolAPI struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"school_api"`
	Staff struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"staff"`
}

// LoadConfig читает конфигурацию из yaml файла. Секреты можно вынести в .env:
// значения переменных окружения имеют приоритет над файлом.
func LoadConfig(filename string) (*Config, error) {
	// .env не обязателен: в проде переменные задаются окружением
	_ = godotenv.Load()

	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides подменяет значения из файла переменными окружения
func applyEnvOverrides(config *Config) {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		config.TelegramBot.Token = token
	}
	if url := os.Getenv("WEBHOOK_URL"); url != "" {
		config.TelegramBot.WebhookURL = url
	}
	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		config.Database.Password = password
	}
	if baseURL := os.Getenv("SCHOOL_API_BASE_URL"); baseURL != "" {
		config.SchoolAPI.BaseURL = baseURL
	}
}
