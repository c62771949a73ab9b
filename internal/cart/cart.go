// Package cart хранит состояние корзины покупателя. Модуль заказов
// потребляет отсюда единственную способность — Clear.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

// Item — позиция корзины.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Qty       int32           `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

// Cart — контейнер состояния корзины на время сессии.
type Cart struct {
	mu    sync.RWMutex
	items []Item
}

// New возвращает пустую корзину.
func New() *Cart {
	return &Cart{}
}

// Add добавляет позицию; если товар уже в корзине, количества складываются.
func (c *Cart) Add(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Qty += item.Qty
			return
		}
	}
	c.items = append(c.items, item)
}

// Remove убирает позицию целиком; отсутствие товара не считается ошибкой.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQty выставляет количество для товара; qty <= 0 убирает позицию.
func (c *Cart) SetQty(productID string, qty int32) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Qty = qty
			return
		}
	}
}

// Items возвращает копию содержимого корзины.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append(make([]Item, 0, len(c.items)), c.items...)
}

// Len возвращает число позиций в корзине.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Total возвращает сумму корзины: qty * price по всем позициям.
func (c *Cart) Total() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Qty)))
	}
	return total
}

// Clear опустошает корзину. Успешно созданный заказ не должен оставлять
// устаревшую корзину, поэтому модуль заказов вызывает Clear сам.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Draft собирает из содержимого корзины черновик заказа.
func (c *Cart) Draft(shippingAddress, paymentMethod string) domain.OrderDraft {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]domain.OrderItem, 0, len(c.items))
	total := decimal.Zero
	for _, item := range c.items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Qty)))
	}

	return domain.OrderDraft{
		Items:           items,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		Total:           total,
	}
}

var _ domain.CartClearer = (*Cart)(nil)
