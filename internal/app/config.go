package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config задаёт настройки storefront-клиента. Значения читаются из
// переменных окружения; .env подхватывается в main через godotenv.
type Config struct {
	// BackendURL — адрес HTTP API витрины.
	BackendURL string `env:"BUYZZIE_BACKEND_URL,default=http://localhost:3000"`
	// RequestTimeout ограничивает каждый запрос к backend целиком.
	RequestTimeout time.Duration `env:"BUYZZIE_REQUEST_TIMEOUT,default=10s"`
	// MetricsAddr — адрес служебного HTTP-сервера (метрики и health).
	MetricsAddr string `env:"BUYZZIE_METRICS_ADDR,default=:9090"`
	// KafkaBrokers — список брокеров через запятую; пусто = Kafka отключена.
	KafkaBrokers string `env:"BUYZZIE_KAFKA_BROKERS,default="`
	// LogLevel — уровень логирования logrus.
	LogLevel string `env:"BUYZZIE_LOG_LEVEL,default=info"`
}

// LoadConfig декодирует конфигурацию из окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config from environment: %w", err)
	}
	return cfg, nil
}

// Brokers возвращает адреса Kafka-брокеров; пустой срез = Kafka отключена.
func (c Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
