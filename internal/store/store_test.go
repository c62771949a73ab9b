package store_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/store"
)

func newOrder(id string) *domain.Order {
	return &domain.Order{
		ID:     id,
		Status: "pending",
		Total:  decimal.NewFromInt(20),
	}
}

func TestStore_Defaults(t *testing.T) {
	s := store.New()

	if got := s.Orders(); len(got) != 0 {
		t.Fatalf("expected empty orders, got %d", len(got))
	}
	if _, ok := s.CurrentOrder(); ok {
		t.Fatal("expected no current order")
	}
	if s.Loading() {
		t.Fatal("expected loading=false")
	}
	if _, ok := s.ErrorMessage(); ok {
		t.Fatal("expected no error")
	}
}

func TestStore_OperationStartedSetsLoadingAndClearsError(t *testing.T) {
	s := store.New()
	s.OperationFailed("previous failure")

	s.OperationStarted()

	if !s.Loading() {
		t.Fatal("expected loading=true after start")
	}
	if msg, ok := s.ErrorMessage(); ok {
		t.Fatalf("expected error cleared on start, got %q", msg)
	}
}

func TestStore_OperationFailed(t *testing.T) {
	s := store.New()
	s.OperationStarted()

	s.OperationFailed("Out of stock")

	if s.Loading() {
		t.Fatal("expected loading=false after failure")
	}
	msg, ok := s.ErrorMessage()
	if !ok || msg != "Out of stock" {
		t.Fatalf("expected error %q, got %q (present=%v)", "Out of stock", msg, ok)
	}
}

func TestStore_CreateSucceededPrepends(t *testing.T) {
	s := store.New()

	s.OperationStarted()
	s.CreateSucceeded(newOrder("x"))
	s.OperationStarted()
	s.CreateSucceeded(newOrder("y"))

	got := s.Orders()
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if got[0].ID != "y" || got[1].ID != "x" {
		t.Fatalf("expected [y x], got [%s %s]", got[0].ID, got[1].ID)
	}

	current, ok := s.CurrentOrder()
	if !ok || current.ID != "y" {
		t.Fatalf("expected current order y, got %q (present=%v)", current.ID, ok)
	}
	if s.Loading() {
		t.Fatal("expected loading=false after settlement")
	}
}

func TestStore_CreateSucceededWithoutOrder(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.CreateSucceeded(newOrder("x"))

	// Деградированный успех: backend не вернул заказ.
	s.OperationStarted()
	s.CreateSucceeded(nil)

	got := s.Orders()
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected orders unchanged, got %v", got)
	}
	current, ok := s.CurrentOrder()
	if !ok || current.ID != "x" {
		t.Fatalf("expected current order unchanged, got %q (present=%v)", current.ID, ok)
	}
	if s.Loading() {
		t.Fatal("expected loading=false")
	}
	if _, ok := s.ErrorMessage(); ok {
		t.Fatal("expected no error")
	}
}

func TestStore_ListSucceededReplacesWholesale(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.CreateSucceeded(newOrder("stale"))

	s.OperationStarted()
	s.ListSucceeded([]domain.Order{{ID: "a"}, {ID: "b"}})

	got := s.Orders()
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}

	// Массовая загрузка не трогает текущий заказ.
	current, ok := s.CurrentOrder()
	if !ok || current.ID != "stale" {
		t.Fatalf("expected current order untouched, got %q (present=%v)", current.ID, ok)
	}
}

func TestStore_ListSucceededNilFallsBackToEmpty(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.CreateSucceeded(newOrder("x"))

	s.OperationStarted()
	s.ListSucceeded(nil)

	if got := s.Orders(); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestStore_FetchSucceededReplacesCurrentOnly(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.ListSucceeded([]domain.Order{{ID: "a"}, {ID: "b"}})

	s.OperationStarted()
	s.FetchSucceeded(newOrder("b"))

	current, ok := s.CurrentOrder()
	if !ok || current.ID != "b" {
		t.Fatalf("expected current order b, got %q (present=%v)", current.ID, ok)
	}
	if got := s.Orders(); len(got) != 2 {
		t.Fatalf("expected orders untouched, got %v", got)
	}
}

func TestStore_ClearCurrentOrderTouchesOnlyItsField(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.CreateSucceeded(newOrder("x"))
	s.OperationFailed("boom")

	s.ClearCurrentOrder()

	if _, ok := s.CurrentOrder(); ok {
		t.Fatal("expected current order cleared")
	}
	if got := s.Orders(); len(got) != 1 {
		t.Fatalf("expected orders untouched, got %v", got)
	}
	if msg, ok := s.ErrorMessage(); !ok || msg != "boom" {
		t.Fatalf("expected error untouched, got %q (present=%v)", msg, ok)
	}
}

func TestStore_ClearErrorTouchesOnlyItsField(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.CreateSucceeded(newOrder("x"))
	s.OperationFailed("boom")

	s.ClearError()

	if _, ok := s.ErrorMessage(); ok {
		t.Fatal("expected error cleared")
	}
	if _, ok := s.CurrentOrder(); !ok {
		t.Fatal("expected current order untouched")
	}
	if got := s.Orders(); len(got) != 1 {
		t.Fatalf("expected orders untouched, got %v", got)
	}
}

func TestStore_OrderByID(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.ListSucceeded([]domain.Order{{ID: "a"}, {ID: "b"}})

	order, ok := s.OrderByID("b")
	if !ok || order.ID != "b" {
		t.Fatalf("expected to find b, got %q (present=%v)", order.ID, ok)
	}

	if _, ok := s.OrderByID("missing"); ok {
		t.Fatal("expected missing id to be absent")
	}
}

func TestStore_LastSettlementWins(t *testing.T) {
	s := store.New()

	// Две перекрывающиеся операции: поздний запуск лишь подтверждает loading.
	s.OperationStarted()
	s.OperationStarted()
	if !s.Loading() {
		t.Fatal("expected loading=true while operations are in flight")
	}

	// Первая завершилась отказом, вторая успехом: побеждает последняя.
	s.OperationFailed("slow one failed")
	s.ListSucceeded([]domain.Order{{ID: "a"}})

	if s.Loading() {
		t.Fatal("expected loading=false")
	}
	if msg, ok := s.ErrorMessage(); ok {
		t.Fatalf("expected error overwritten by later success, got %q", msg)
	}
}

func TestStore_SelectorsReturnCopies(t *testing.T) {
	s := store.New()
	s.OperationStarted()
	s.ListSucceeded([]domain.Order{{ID: "a"}})

	got := s.Orders()
	got[0].ID = "mutated"

	again := s.Orders()
	if again[0].ID != "a" {
		t.Fatalf("store state mutated through selector copy: %q", again[0].ID)
	}

	snap := s.Snapshot()
	snap.Orders[0].ID = "mutated"
	if fresh := s.Snapshot(); fresh.Orders[0].ID != "a" {
		t.Fatalf("store state mutated through snapshot: %q", fresh.Orders[0].ID)
	}
}
