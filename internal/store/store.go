package store

import (
	"sync"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

// Store — контейнер состояния заказов. Создаётся один раз на старте сессии
// с пустыми значениями по умолчанию и живёт до конца процесса; ссылку на
// него получают и координатор операций, и читающие селекторы.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New возвращает контейнер с пустым списком, без текущего заказа,
// loading=false и без ошибки.
func New() *Store {
	return &Store{}
}

func (s *Store) apply(next func(State) State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next(s.state)
}

// OperationStarted отмечает запуск операции: loading=true, ошибка сброшена.
func (s *Store) OperationStarted() {
	s.apply(reduceOperationStarted)
}

// OperationFailed отмечает отказ операции с человекочитаемой причиной.
func (s *Store) OperationFailed(reason string) {
	s.apply(func(st State) State { return reduceOperationFailed(st, reason) })
}

// CreateSucceeded применяет результат успешного создания заказа.
func (s *Store) CreateSucceeded(order *domain.Order) {
	s.apply(func(st State) State { return reduceCreateSucceeded(st, order) })
}

// ListSucceeded применяет результат успешной массовой загрузки.
func (s *Store) ListSucceeded(orders []domain.Order) {
	s.apply(func(st State) State { return reduceListSucceeded(st, orders) })
}

// FetchSucceeded применяет результат успешной загрузки одного заказа.
func (s *Store) FetchSucceeded(order *domain.Order) {
	s.apply(func(st State) State { return reduceFetchSucceeded(st, order) })
}

// ClearCurrentOrder убирает текущий заказ.
func (s *Store) ClearCurrentOrder() {
	s.apply(reduceClearCurrentOrder)
}

// ClearError убирает сообщение об ошибке.
func (s *Store) ClearError() {
	s.apply(reduceClearError)
}

// Orders возвращает копию списка заказов сессии.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]domain.Order, 0, len(s.state.Orders)), s.state.Orders...)
}

// OrderByID ищет заказ линейным проходом; второй результат false, если
// заказа нет. При дубликатах возвращается первый, то есть самый свежий.
func (s *Store) OrderByID(id string) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.state.Orders {
		if order.ID == id {
			return order, true
		}
	}
	return domain.Order{}, false
}

// CurrentOrder возвращает текущий заказ, если он есть.
func (s *Store) CurrentOrder() (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentOrder == nil {
		return domain.Order{}, false
	}
	return *s.state.CurrentOrder, true
}

// Loading сообщает, есть ли незавершённая операция (общий флаг на все три).
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// ErrorMessage возвращает сообщение последней неуспешной операции.
func (s *Store) ErrorMessage() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Err, s.state.Err != ""
}

// Snapshot возвращает копию всего состояния; срез и указатель в копии
// не разделяются с внутренним состоянием.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.Orders = append(make([]domain.Order, 0, len(s.state.Orders)), s.state.Orders...)
	if s.state.CurrentOrder != nil {
		cp := *s.state.CurrentOrder
		snap.CurrentOrder = &cp
	}
	return snap
}
