// Package app собирает компоненты storefront-клиента в работающее приложение:
// хранилища состояния, REST-шлюз, координатор операций и служебный
// HTTP-сервер с метриками и health-проверками.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/cart"
	healthcheck "github.com/chinmay-meghare/buyzzie-sub001/internal/health"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/messaging/kafka"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/service/orders"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/store"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/transport/rest"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/version"
)

// App держит собранные компоненты. UI-слой получает команды и селекторы
// через Orders, Store и Cart; остальное — служебная обвязка.
type App struct {
	Store  *store.Store
	Cart   *cart.Cart
	Orders *orders.Coordinator

	cfg      Config
	logger   *log.Entry
	gateway  *rest.Client
	producer *kafka.Producer
	health   *healthcheck.Handler
}

// New собирает приложение по конфигурации. Kafka подключается только если
// заданы брокеры; отказ подключения не мешает запуску.
func New(cfg Config, logger *log.Entry) *App {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	st := store.New()
	crt := cart.New()
	gateway := rest.NewClient(cfg.BackendURL, cfg.RequestTimeout, logger.WithField("component", "rest-client"))

	var producer *kafka.Producer
	var coordinator *orders.Coordinator

	if brokers := cfg.Brokers(); len(brokers) > 0 {
		p, err := kafka.NewProducer(brokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			producer = p
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
			coordinator = orders.NewCoordinatorWithKafka(gateway, st, crt, producer, logger.WithField("component", "orders"))
		}
	}

	if coordinator == nil {
		coordinator = orders.NewCoordinator(gateway, st, crt, logger.WithField("component", "orders"))
	}

	health := healthcheck.NewHandler(version.String())
	health.RegisterCheck("backend", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return gateway.Ping(ctx)
	})

	return &App{
		Store:    st,
		Cart:     crt,
		Orders:   coordinator,
		cfg:      cfg,
		logger:   logger,
		gateway:  gateway,
		producer: producer,
		health:   health,
	}
}

// Run обслуживает метрики и health до отмены контекста, затем аккуратно
// всё останавливает.
func (a *App) Run(ctx context.Context) error {
	srv := a.startServiceServer()

	<-ctx.Done()
	a.logger.Info("получен сигнал остановки, останавливаем служебный сервер")
	shutdownHTTP(srv, a.logger)

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			a.logger.Info("kafka producer closed")
		}
	}

	return ctx.Err()
}

// startServiceServer запускает HTTP-обработчики /metrics и health-проверок.
// Остановкой сервера владеет Run.
func (a *App) startServiceServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", a.health)
	mux.HandleFunc("/readyz", a.health.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
	go func() {
		a.logger.Infof("метрики доступны по адресу %s/metrics", a.cfg.MetricsAddr)
		a.logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", a.cfg.MetricsAddr, a.cfg.MetricsAddr, a.cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Warn("service server failed")
		}
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("service server shutdown with error")
	}
}
