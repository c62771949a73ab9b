package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Операции модуля заказов в том виде, в каком они попадают в метрики.
const (
	OpCreateOrder = "create_order"
	OpFetchOrders = "fetch_orders"
	OpFetchOrder  = "fetch_order_by_id"
)

// OperationMetrics содержит метрики асинхронных операций над заказами.
type OperationMetrics struct {
	// Счётчики фаз операций, с меткой operation
	opsStarted   *prometheus.CounterVec
	opsSucceeded *prometheus.CounterVec
	opsFailed    *prometheus.CounterVec

	// Гистограмма времени от запуска до завершения
	settleDuration *prometheus.HistogramVec

	// Gauge незавершённых операций
	inflight prometheus.Gauge

	// Счётчики побочных эффектов
	cartClears      prometheus.Counter
	eventsPublished prometheus.Counter
}

// NewOperationMetrics создаёт метрики операций в реестре по умолчанию.
func NewOperationMetrics() *OperationMetrics {
	return newOperationMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newOperationMetricsWithRegisterer(registerer prometheus.Registerer) *OperationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OperationMetrics{
		opsStarted: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "buyzzie_order_operations_started_total",
			Help: "Total number of order operations dispatched",
		}, []string{"operation"}),
		opsSucceeded: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "buyzzie_order_operations_succeeded_total",
			Help: "Total number of order operations settled successfully",
		}, []string{"operation"}),
		opsFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "buyzzie_order_operations_failed_total",
			Help: "Total number of order operations settled with a failure",
		}, []string{"operation"}),
		settleDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "buyzzie_order_operation_duration_seconds",
			Help:    "Time from operation dispatch to settlement in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"operation"}),
		inflight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "buyzzie_order_operations_inflight",
			Help: "Number of order operations currently awaiting settlement",
		}),
		cartClears: registerCounter(registerer, prometheus.CounterOpts{
			Name: "buyzzie_cart_clears_total",
			Help: "Total number of cart clears triggered by successful order creation",
		}),
		eventsPublished: registerCounter(registerer, prometheus.CounterOpts{
			Name: "buyzzie_order_events_published_total",
			Help: "Total number of settlement events published to kafka",
		}),
	}
}

// RecordStarted отмечает запуск операции.
func (m *OperationMetrics) RecordStarted(operation string) {
	m.opsStarted.WithLabelValues(operation).Inc()
	m.inflight.Inc()
}

// RecordSucceeded отмечает успешное завершение операции.
func (m *OperationMetrics) RecordSucceeded(operation string, elapsed time.Duration) {
	m.opsSucceeded.WithLabelValues(operation).Inc()
	m.settleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.inflight.Dec()
}

// RecordFailed отмечает неуспешное завершение операции.
func (m *OperationMetrics) RecordFailed(operation string, elapsed time.Duration) {
	m.opsFailed.WithLabelValues(operation).Inc()
	m.settleDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.inflight.Dec()
}

// RecordCartCleared отмечает очистку корзины после успешного оформления.
func (m *OperationMetrics) RecordCartCleared() {
	m.cartClears.Inc()
}

// RecordEventPublished отмечает публикацию события завершения в Kafka.
func (m *OperationMetrics) RecordEventPublished() {
	m.eventsPublished.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}
