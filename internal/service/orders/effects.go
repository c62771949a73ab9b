package orders

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

// Effect — побочное действие, выполняемое после успешного создания заказа.
// Эффекты объявлены явным списком, чтобы связь между подсистемами была
// видимой и тестируемой отдельно от редьюсеров заказов.
type Effect func(ctx context.Context)

// ClearCartEffect возвращает эффект, опустошающий корзину. Созданный заказ
// не должен оставлять устаревшую корзину.
func ClearCartEffect(cart domain.CartClearer, logger *log.Entry) Effect {
	return func(_ context.Context) {
		cart.Clear()
		if logger != nil {
			logger.Debug("cart cleared after successful order creation")
		}
	}
}
