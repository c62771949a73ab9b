package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/app"
)

// setupLogger настраивает формат и уровень логирования клиента.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

func main() {
	// .env опционален: его отсутствие не ошибка.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("не удалось прочитать конфигурацию")
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"backend_url":  cfg.BackendURL,
		"metrics_addr": cfg.MetricsAddr,
	}).Info("запускаем storefront-клиент")

	application := app.New(cfg, log.WithField("component", "app"))
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("storefront-клиент остановлен")
}
