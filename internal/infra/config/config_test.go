package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `server:
  host: "127.0.0.1"
  port: "8080"

telegram_bot:
  token: "file-token"
  username: "driving_school_bot"
  mode: "polling"
  poll_interval_seconds: 5
  debug: true

database:
  host: "localhost"
  port: "5432"
  user: "schoolbot"
  password: "file-password"
  dbname: "schoolbot"

school_api:
  base_url: "http://localhost:5000"
  timeout_seconds: 15

staff:
  base_url: "http://localhost:8080"
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o600); err != nil {
		t.Fatalf("не удалось записать тестовый конфиг: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	// 1. Загружаем конфиг из файла и проверяем значения всех секций.
	cfg, err := LoadConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("ожидался порт 8080, получен %s", cfg.Server.Port)
	}
	if cfg.TelegramBot.Token != "file-token" {
		t.Errorf("ожидался токен file-token, получен %s", cfg.TelegramBot.Token)
	}
	if cfg.TelegramBot.PollIntervalSeconds != 5 {
		t.Errorf("ожидался интервал 5, получен %d", cfg.TelegramBot.PollIntervalSeconds)
	}
	if !cfg.TelegramBot.Debug {
		t.Error("флаг debug из файла не прочитан")
	}
	if cfg.SchoolAPI.BaseURL != "http://localhost:5000" {
		t.Errorf("неожиданный base_url: %s", cfg.SchoolAPI.BaseURL)
	}
	if cfg.SchoolAPI.TimeoutSeconds != 15 {
		t.Errorf("ожидался таймаут 15, получен %d", cfg.SchoolAPI.TimeoutSeconds)
	}
	if cfg.Database.Password != "file-password" {
		t.Errorf("неожиданный пароль базы: %s", cfg.Database.Password)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	// 2. Переменные окружения имеют приоритет над значениями файла.
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("DATABASE_PASSWORD", "env-password")
	t.Setenv("SCHOOL_API_BASE_URL", "http://api.example.com")

	cfg, err := LoadConfig(writeTestConfig(t))
	if err != nil {
		t.Fatalf("LoadConfig вернул ошибку: %v", err)
	}

	if cfg.TelegramBot.Token != "env-token" {
		t.Errorf("ожидался токен из окружения, получен %s", cfg.TelegramBot.Token)
	}
	if cfg.Database.Password != "env-password" {
		t.Errorf("ожидался пароль из окружения, получен %s", cfg.Database.Password)
	}
	if cfg.SchoolAPI.BaseURL != "http://api.example.com" {
		t.Errorf("ожидался base_url из окружения, получен %s", cfg.SchoolAPI.BaseURL)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	// 3. Отсутствующий файл — ошибка, а не пустой конфиг.
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("ожидалась ошибка для отсутствующего файла")
	}
}
