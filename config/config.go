package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config contém as configurações da aplicação
type Config struct {
	TelegramBotToken   string // opcional: sem token o bot não sobe e os alertas vão para o log
	TelegramChatID     int64
	DatabasePath       string
	HTTPAddr           string
	AlertInterval      time.Duration
	RefreshInterval    time.Duration
	FetchRatePerMinute int
	MonthlyLimit       int // aplicado também a bancos já existentes na próxima leitura
	ProfilesPath       string
	LogLevel           logrus.Level
	NotificationIcon   string
}

// Load carrega as configurações das variáveis de ambiente
func Load() (*Config, error) {
	cfg := &Config{
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:       envOr("DATABASE_PATH", "./tracker.db"),
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		AlertInterval:      60 * time.Minute,
		RefreshInterval:    30 * time.Minute,
		FetchRatePerMinute: 20,
		MonthlyLimit:       10,
		ProfilesPath:       os.Getenv("PROFILES_PATH"),
		LogLevel:           logrus.InfoLevel,
		NotificationIcon:   envOr("NOTIFICATION_ICON", "icons/icon128.png"),
	}

	// Chat ID é opcional (restringe o uso do bot a um chat)
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID inválido: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if minutes, ok := positiveInt("ALERT_INTERVAL_MINUTES"); ok {
		cfg.AlertInterval = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := positiveInt("REFRESH_INTERVAL_MINUTES"); ok {
		cfg.RefreshInterval = time.Duration(minutes) * time.Minute
	}
	if rate, ok := positiveInt("FETCH_RATE_PER_MINUTE"); ok {
		cfg.FetchRatePerMinute = rate
	}
	if limit, ok := positiveInt("MONTHLY_LIMIT"); ok {
		cfg.MonthlyLimit = limit
	}

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		level, err := logrus.ParseLevel(levelStr)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL inválido: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// NewLogger cria o logger da aplicação no nível configurado
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// positiveInt ignora valores ausentes, inválidos ou não positivos
func positiveInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
