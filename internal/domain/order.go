package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ProductID — идентификатор товара в каталоге.
	ProductID string `json:"product_id"`
	// Name — отображаемое название на момент оформления.
	Name string `json:"name,omitempty"`
	// Qty — количество единиц товара.
	Qty int32 `json:"qty"`
	// Price — цена за единицу.
	Price decimal.Decimal `json:"price"`
}

// Order — заказ в том виде, в каком его возвращает backend витрины.
// Модуль состояния опирается только на поле ID; остальные поля
// передаются дальше как есть.
type Order struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id,omitempty"`
	Status     string          `json:"status,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderItem     `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

// OrderDraft — данные нового заказа, отправляемые на backend при оформлении.
type OrderDraft struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	Total           decimal.Decimal `json:"total"`
}

// Validate проверяет базовые инварианты черновика и возвращает список замечаний.
func (d *OrderDraft) Validate() []error {
	var errs []error

	if len(d.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if d.Total.IsNegative() {
		errs = append(errs, ErrTotalNegative)
	}

	// Сверяем сумму черновика с суммой позиций: qty * price.
	calc := decimal.Zero
	for _, item := range d.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc = calc.Add(item.Price.Mul(decimal.NewFromInt32(item.Qty)))
	}
	if !calc.Equal(d.Total) {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
