package domain

import "context"

// OrderGateway описывает взаимодействие с backend витрины по заказам.
// Таймауты и транспортные детали принадлежат реализации шлюза.
type OrderGateway interface {
	// CreateOrder отправляет черновик на оформление и возвращает созданный
	// заказ. Допускается (nil, nil): backend подтвердил создание, но не
	// вернул тело заказа.
	CreateOrder(ctx context.Context, draft OrderDraft) (*Order, error)
	// ListOrders возвращает все заказы текущего покупателя в порядке backend.
	ListOrders(ctx context.Context) ([]Order, error)
	// GetOrder возвращает один заказ по идентификатору.
	GetOrder(ctx context.Context, id string) (*Order, error)
}

// CartClearer — единственная способность корзины, которую потребляет модуль
// заказов: опустошить её после успешного оформления.
type CartClearer interface {
	Clear()
}
