// Утилита нагрузочного прогона: гоняет сценарии create/browse через тот же
// координатор операций, которым пользуется витрина, и печатает JSON-отчёт
// с латентностью и долей ошибок.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/cart"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/service/orders"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/store"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/transport/rest"
)

type loadMode string

const (
	modeCreate loadMode = "create"
	modeBrowse loadMode = "browse"
	modeMixed  loadMode = "mixed"
)

type config struct {
	backendURL  string
	total       int
	concurrency int
	timeout     time.Duration
	mode        loadMode
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type operationReport struct {
	Calls     int64          `json:"calls"`
	Success   int64          `json:"success"`
	Failed    int64          `json:"failed"`
	ErrorRate float64        `json:"error_rate"`
	LatencyMs latencySummary `json:"latency_ms"`
}

type report struct {
	StartedAt       time.Time                  `json:"started_at"`
	DurationSeconds float64                    `json:"duration_seconds"`
	TotalScenarios  int64                      `json:"total_scenarios"`
	FailedScenarios int64                      `json:"failed_scenarios"`
	RPS             float64                    `json:"rps"`
	Operations      map[string]operationReport `json:"operations"`
}

type operationStats struct {
	mu        sync.Mutex
	calls     int64
	success   int64
	failed    int64
	latencies []float64
}

func (s *operationStats) record(elapsed time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err != nil {
		s.failed++
	} else {
		s.success++
	}
	s.latencies = append(s.latencies, float64(elapsed.Milliseconds()))
}

func (s *operationStats) report() operationReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	rep := operationReport{Calls: s.calls, Success: s.success, Failed: s.failed}
	if s.calls > 0 {
		rep.ErrorRate = float64(s.failed) / float64(s.calls)
	}
	rep.LatencyMs = summarize(s.latencies)
	return rep
}

func summarize(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}
	sorted := append(make([]float64, 0, len(values)), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func parseFlags() config {
	cfg := config{}
	var mode string
	flag.StringVar(&cfg.backendURL, "backend", "http://localhost:3000", "адрес backend витрины")
	flag.IntVar(&cfg.total, "total", 100, "количество сценариев")
	flag.IntVar(&cfg.concurrency, "concurrency", 4, "число параллельных воркеров")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "таймаут одного запроса")
	flag.StringVar(&mode, "mode", string(modeMixed), "сценарий: create | browse | mixed")
	flag.StringVar(&cfg.outputPath, "output", "", "путь для JSON-отчёта (по умолчанию stdout)")
	flag.Parse()
	cfg.mode = loadMode(mode)
	return cfg
}

// sampleDraft — черновик, которым наполняются create-сценарии.
func sampleDraft(n int) domain.OrderDraft {
	price := decimal.NewFromInt(1999).Div(decimal.NewFromInt(100))
	return domain.OrderDraft{
		Items: []domain.OrderItem{{
			ProductID: fmt.Sprintf("loadtest-sku-%d", n%10),
			Name:      "loadtest item",
			Qty:       1,
			Price:     price,
		}},
		ShippingAddress: "loadtest lane 1",
		PaymentMethod:   "card",
		Total:           price,
	}
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	cfg := parseFlags()

	if cfg.mode != modeCreate && cfg.mode != modeBrowse && cfg.mode != modeMixed {
		log.Fatalf("неизвестный режим: %s", cfg.mode)
	}
	if errs := (&domain.OrderDraft{}).Validate(); len(errs) == 0 {
		log.Fatal("draft validation is broken: empty draft passed")
	}
	sample := sampleDraft(0)
	if errs := sample.Validate(); len(errs) != 0 {
		log.Fatalf("sample draft is invalid: %v", errs)
	}

	st := store.New()
	crt := cart.New()
	gateway := rest.NewClient(cfg.backendURL, cfg.timeout, log.WithField("component", "loadtest-rest"))
	coordinator := orders.NewCoordinatorWithoutMetrics(gateway, st, crt, log.WithField("component", "loadtest"))

	createStats := &operationStats{}
	listStats := &operationStats{}
	fetchStats := &operationStats{}

	var scenarioNo int64
	var failedScenarios int64

	startedAt := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				n := atomic.AddInt64(&scenarioNo, 1)
				if n > int64(cfg.total) {
					return
				}
				if err := runScenario(coordinator, st, cfg.mode, int(n), createStats, listStats, fetchStats); err != nil {
					atomic.AddInt64(&failedScenarios, 1)
				}
			}
		}()
	}
	wg.Wait()

	rep := report{
		StartedAt:       startedAt,
		DurationSeconds: time.Since(startedAt).Seconds(),
		TotalScenarios:  int64(cfg.total),
		FailedScenarios: atomic.LoadInt64(&failedScenarios),
		Operations: map[string]operationReport{
			"create_order":      createStats.report(),
			"fetch_orders":      listStats.report(),
			"fetch_order_by_id": fetchStats.report(),
		},
	}
	if rep.DurationSeconds > 0 {
		rep.RPS = float64(cfg.total) / rep.DurationSeconds
	}

	writeReport(rep, cfg.outputPath)
}

func runScenario(coordinator *orders.Coordinator, st *store.Store, mode loadMode, n int, createStats, listStats, fetchStats *operationStats) error {
	ctx := context.Background()
	var scenarioErr error

	doCreate := mode == modeCreate || (mode == modeMixed && n%2 == 1)
	doBrowse := mode == modeBrowse || (mode == modeMixed && n%2 == 0)

	if doCreate {
		started := time.Now()
		_, err := coordinator.CreateOrder(ctx, sampleDraft(n))
		createStats.record(time.Since(started), err)
		if err != nil {
			scenarioErr = err
		}
	}

	if doBrowse {
		started := time.Now()
		list, err := coordinator.FetchOrders(ctx)
		listStats.record(time.Since(started), err)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return scenarioErr
		}

		started = time.Now()
		_, err = coordinator.FetchOrderByID(ctx, list[n%len(list)].ID)
		fetchStats.record(time.Since(started), err)
		if err != nil && !domain.IsNotFound(err) {
			// Исчезнувший между запросами заказ — не дефект прогона.
			scenarioErr = err
		}

		// Селекторы должны видеть то, что только что свели операции.
		if err == nil {
			if _, ok := st.OrderByID(list[n%len(list)].ID); !ok {
				scenarioErr = fmt.Errorf("order %s not visible through selectors", list[n%len(list)].ID)
			}
		}
	}

	return scenarioErr
}

func writeReport(rep report, path string) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("не удалось сериализовать отчёт")
	}

	if path == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Fatal("не удалось записать отчёт")
	}
	log.Infof("отчёт записан в %s", path)
}
