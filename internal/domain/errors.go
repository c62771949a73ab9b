package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Ошибка отсутствия хотя бы одного товара в черновике заказа.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы черновика.
	ErrTotalNegative = errors.New("order total must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы черновика и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// ErrOrderIDRequired возвращается при запросе заказа с пустым идентификатором.
	ErrOrderIDRequired = errors.New("order id is required")
	// ErrOrderNotFound возвращается, если backend не знает такого заказа.
	ErrOrderNotFound = errors.New("order not found")
)

// BackendError — отказ backend витрины на уровне приложения. Несёт обе
// формы сообщения, которые может вернуть backend: вложенное поле error из
// тела ответа и верхнеуровневое message.
type BackendError struct {
	StatusCode int
	// ErrorField — значение поля "error" из тела ответа, если оно было.
	ErrorField string
	// Message — значение поля "message" из тела ответа, если оно было.
	Message string
}

func (e *BackendError) Error() string {
	if e.ErrorField != "" {
		return e.ErrorField
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Is сопоставляет отказ со статусом 404 с ErrOrderNotFound.
func (e *BackendError) Is(target error) bool {
	return target == ErrOrderNotFound && e.StatusCode == http.StatusNotFound
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}
