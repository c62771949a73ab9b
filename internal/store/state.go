// Package store хранит состояние заказов текущей сессии покупателя.
//
// Все три асинхронные операции (создание, список, заказ по id) делят один
// флаг loading и один слот error. Известное ограничение: при одновременных
// операциях итоговое значение определяет та, что завершилась последней, —
// «победа последнего завершения». Отмены запросов нет, устаревший ответ
// применяет свой переход безусловно. Поведение сохранено намеренно.
package store

import "github.com/chinmay-meghare/buyzzie-sub001/internal/domain"

// State — снимок состояния заказов. Переходы ниже чистые: принимают текущее
// состояние и сигнал, возвращают следующее состояние, без ввода-вывода.
type State struct {
	// Orders — заказы сессии: свежесозданные спереди, результат массовой
	// загрузки — в порядке backend. Уникальность не гарантируется.
	Orders []domain.Order
	// CurrentOrder — последний созданный или отдельно загруженный заказ.
	CurrentOrder *domain.Order
	// Loading взводится строго между запуском операции и её завершением.
	Loading bool
	// Err — сообщение последней неуспешной операции; пустая строка = ошибки нет.
	Err string
}

// reduceOperationStarted взводит loading и сбрасывает прежнюю ошибку.
func reduceOperationStarted(s State) State {
	s.Loading = true
	s.Err = ""
	return s
}

// reduceOperationFailed фиксирует причину отказа и снимает loading.
func reduceOperationFailed(s State, reason string) State {
	s.Loading = false
	s.Err = reason
	return s
}

// reduceCreateSucceeded добавляет созданный заказ в начало списка и делает
// его текущим. Если backend не вернул заказ, поля заказов не трогаем —
// это деградированный успех, а не отказ.
func reduceCreateSucceeded(s State, order *domain.Order) State {
	s.Loading = false
	s.Err = ""
	if order == nil {
		return s
	}
	cp := *order
	s.CurrentOrder = &cp
	s.Orders = append([]domain.Order{cp}, s.Orders...)
	return s
}

// reduceListSucceeded целиком заменяет список заказов; текущий заказ не трогает.
func reduceListSucceeded(s State, orders []domain.Order) State {
	s.Loading = false
	s.Err = ""
	// Копия защищает состояние от мутаций исходного среза извне.
	s.Orders = append(make([]domain.Order, 0, len(orders)), orders...)
	return s
}

// reduceFetchSucceeded перезаписывает текущий заказ; список не трогает.
// nil означает пустой ответ backend — текущий заказ становится отсутствующим.
func reduceFetchSucceeded(s State, order *domain.Order) State {
	s.Loading = false
	s.Err = ""
	if order == nil {
		s.CurrentOrder = nil
		return s
	}
	cp := *order
	s.CurrentOrder = &cp
	return s
}

// reduceClearCurrentOrder убирает текущий заказ, остальное без изменений.
func reduceClearCurrentOrder(s State) State {
	s.CurrentOrder = nil
	return s
}

// reduceClearError убирает ошибку, остальное без изменений.
func reduceClearError(s State) State {
	s.Err = ""
	return s
}
