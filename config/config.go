package config

import (
	"os"
	"strings"

	"storefront-service/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port string
	DB   DB

	KafkaBrokers []string
	KafkaTopic   string

	Gateway Gateway
}

type DB struct {
	database.Config
}

// Gateway — учётные данные платёжного шлюза: идентификатор ключа входит
// в ссылку заказа, секрет подписывает колбэк.
type Gateway struct {
	KeyID  string
	Secret string
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port: getEnv("APP_PORT", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", log)),
		KafkaTopic:   getEnv("KAFKA_TOPIC_ORDERS", log),
		Gateway: Gateway{
			KeyID:  getEnv("GATEWAY_KEY_ID", log),
			Secret: getEnv("GATEWAY_SECRET", log),
		},
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
