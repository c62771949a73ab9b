package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	metric := &dto.Metric{}
	if err := g.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	return metric.Gauge.GetValue()
}

func TestNewOperationMetrics(t *testing.T) {
	m := newOperationMetricsWithRegisterer(prometheus.NewRegistry())

	if m.opsStarted == nil || m.opsSucceeded == nil || m.opsFailed == nil {
		t.Fatal("operation counters should not be nil")
	}
	if m.settleDuration == nil {
		t.Fatal("settleDuration histogram should not be nil")
	}
	if m.inflight == nil {
		t.Fatal("inflight gauge should not be nil")
	}
	if m.cartClears == nil || m.eventsPublished == nil {
		t.Fatal("effect counters should not be nil")
	}
}

func TestNewOperationMetrics_ReregistrationReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := newOperationMetricsWithRegisterer(reg)
	second := newOperationMetricsWithRegisterer(reg)

	second.RecordCartCleared()
	if got := counterValue(t, first.cartClears); got != 1.0 {
		t.Fatalf("expected shared collector value 1.0, got %f", got)
	}
}

func TestRecordStartedAndSettled(t *testing.T) {
	m := newOperationMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordStarted(OpCreateOrder)
	if got := gaugeValue(t, m.inflight); got != 1.0 {
		t.Fatalf("expected inflight 1.0, got %f", got)
	}
	if got := counterValue(t, m.opsStarted.WithLabelValues(OpCreateOrder)); got != 1.0 {
		t.Fatalf("expected started counter 1.0, got %f", got)
	}

	m.RecordSucceeded(OpCreateOrder, 25*time.Millisecond)
	if got := gaugeValue(t, m.inflight); got != 0.0 {
		t.Fatalf("expected inflight 0.0 after settlement, got %f", got)
	}
	if got := counterValue(t, m.opsSucceeded.WithLabelValues(OpCreateOrder)); got != 1.0 {
		t.Fatalf("expected succeeded counter 1.0, got %f", got)
	}
}

func TestRecordFailed(t *testing.T) {
	m := newOperationMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordStarted(OpFetchOrders)
	m.RecordFailed(OpFetchOrders, 10*time.Millisecond)

	if got := counterValue(t, m.opsFailed.WithLabelValues(OpFetchOrders)); got != 1.0 {
		t.Fatalf("expected failed counter 1.0, got %f", got)
	}
	if got := counterValue(t, m.opsSucceeded.WithLabelValues(OpFetchOrders)); got != 0.0 {
		t.Fatalf("expected succeeded counter 0.0, got %f", got)
	}
	if got := gaugeValue(t, m.inflight); got != 0.0 {
		t.Fatalf("expected inflight 0.0, got %f", got)
	}
}

func TestRecordEffects(t *testing.T) {
	m := newOperationMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordCartCleared()
	m.RecordCartCleared()
	m.RecordEventPublished()

	if got := counterValue(t, m.cartClears); got != 2.0 {
		t.Fatalf("expected cart clears 2.0, got %f", got)
	}
	if got := counterValue(t, m.eventsPublished); got != 1.0 {
		t.Fatalf("expected events published 1.0, got %f", got)
	}
}
