// Package orders управляет асинхронными операциями над заказами: создание,
// массовая загрузка и загрузка по идентификатору. Каждая операция проходит
// один и тот же протокол: синхронная отметка запуска в хранилище, один
// запрос к backend, сведение исхода в хранилище. Повторов и отмены нет;
// при перекрывающихся операциях побеждает то завершение, что пришло последним.
package orders

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/messaging/kafka"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/metrics"
	"github.com/chinmay-meghare/buyzzie-sub001/internal/store"
)

// Сообщения по умолчанию, когда ни backend, ни транспорт ничего не сказали.
const (
	defaultCreateMessage = "Failed to place order"
	defaultListMessage   = "Failed to fetch orders"
	defaultFetchMessage  = "Failed to fetch order"
)

// OperationError — исход неуспешной операции, возвращаемый вызывающему коду.
// Reason совпадает с сообщением, помещённым в хранилище.
type OperationError struct {
	Reason string
	cause  error
}

func (e *OperationError) Error() string { return e.Reason }

func (e *OperationError) Unwrap() error { return e.cause }

// Coordinator проводит операции через протокол «запуск → запрос → завершение»
// и сводит их исходы в хранилище заказов.
type Coordinator struct {
	gateway domain.OrderGateway
	orders  *store.Store
	logger  *log.Entry
	metrics *metrics.OperationMetrics
	// producer опционален: события завершения публикуются best-effort
	producer *kafka.Producer

	// clearCart — встроенный эффект очистки корзины; выполняется первым
	// после перехода в хранилище заказов. Метрика и событие cart.cleared
	// привязаны именно к нему.
	clearCart Effect
	// postCreate — дополнительные эффекты успешного создания,
	// в порядке добавления.
	postCreate []Effect
}

// NewCoordinator создаёт координатор c очисткой корзины в качестве
// встроенного эффекта успешного создания заказа.
func NewCoordinator(gateway domain.OrderGateway, orders *store.Store, cart domain.CartClearer, logger *log.Entry) *Coordinator {
	c := newCoordinator(gateway, orders, cart, logger)
	c.metrics = metrics.NewOperationMetrics()
	return c
}

// NewCoordinatorWithKafka создаёт координатор, публикующий события
// завершения операций в Kafka.
func NewCoordinatorWithKafka(gateway domain.OrderGateway, orders *store.Store, cart domain.CartClearer, producer *kafka.Producer, logger *log.Entry) *Coordinator {
	c := newCoordinator(gateway, orders, cart, logger)
	c.metrics = metrics.NewOperationMetrics()
	c.producer = producer
	return c
}

// NewCoordinatorWithoutMetrics создаёт координатор без метрик (для тестов).
func NewCoordinatorWithoutMetrics(gateway domain.OrderGateway, orders *store.Store, cart domain.CartClearer, logger *log.Entry) *Coordinator {
	return newCoordinator(gateway, orders, cart, logger)
}

func newCoordinator(gateway domain.OrderGateway, orders *store.Store, cart domain.CartClearer, logger *log.Entry) *Coordinator {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	c := &Coordinator{
		gateway: gateway,
		orders:  orders,
		logger:  logger,
	}
	if cart != nil {
		c.clearCart = ClearCartEffect(cart, logger)
	}
	return c
}

// AddPostCreateEffect добавляет эффект в конец списка эффектов успешного
// создания. Эффекты выполняются в порядке добавления.
func (c *Coordinator) AddPostCreateEffect(eff Effect) {
	c.postCreate = append(c.postCreate, eff)
}

// CreateOrder отправляет черновик на оформление. При успехе заказ попадает
// в начало списка и становится текущим, после чего выполняются эффекты
// создания (в первую очередь очистка корзины). Исход возвращается вызывающему
// коду в дополнение к переходу в хранилище.
func (c *Coordinator) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	started := c.begin(metrics.OpCreateOrder)

	order, err := c.gateway.CreateOrder(ctx, draft)
	if err != nil {
		opErr := c.fail(metrics.OpCreateOrder, defaultCreateMessage, started, err)
		c.publish(kafka.EventTypeCreateFailed, metrics.OpCreateOrder, "", map[string]interface{}{
			"reason": opErr.Reason,
		})
		return nil, opErr
	}

	// Сначала переход в хранилище заказов, затем эффекты: наблюдатели
	// должны увидеть обновление заказов раньше обновления корзины.
	c.orders.CreateSucceeded(order)
	c.runPostCreate(ctx)
	c.settle(metrics.OpCreateOrder, started)

	orderID := ""
	if order != nil {
		orderID = order.ID
	} else {
		c.logger.Warn("backend confirmed order creation without returning the order")
	}
	c.publish(kafka.EventTypeCreateSucceeded, metrics.OpCreateOrder, orderID, nil)

	return order, nil
}

// FetchOrders загружает все заказы покупателя; список в хранилище заменяется
// целиком, текущий заказ не затрагивается.
func (c *Coordinator) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	started := c.begin(metrics.OpFetchOrders)

	list, err := c.gateway.ListOrders(ctx)
	if err != nil {
		opErr := c.fail(metrics.OpFetchOrders, defaultListMessage, started, err)
		c.publish(kafka.EventTypeListFailed, metrics.OpFetchOrders, "", map[string]interface{}{
			"reason": opErr.Reason,
		})
		return nil, opErr
	}

	c.orders.ListSucceeded(list)
	c.settle(metrics.OpFetchOrders, started)
	c.publish(kafka.EventTypeListSucceeded, metrics.OpFetchOrders, "", map[string]interface{}{
		"count": len(list),
	})

	return list, nil
}

// FetchOrderByID загружает один заказ и делает его текущим; список заказов
// не затрагивается.
func (c *Coordinator) FetchOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	started := c.begin(metrics.OpFetchOrder)

	order, err := c.gateway.GetOrder(ctx, id)
	if err != nil {
		opErr := c.fail(metrics.OpFetchOrder, defaultFetchMessage, started, err)
		c.publish(kafka.EventTypeFetchFailed, metrics.OpFetchOrder, id, map[string]interface{}{
			"reason": opErr.Reason,
		})
		return nil, opErr
	}

	c.orders.FetchSucceeded(order)
	c.settle(metrics.OpFetchOrder, started)
	c.publish(kafka.EventTypeFetchSucceeded, metrics.OpFetchOrder, id, nil)

	return order, nil
}

// begin выполняет шаг 1 протокола: синхронный переход «операция запущена».
func (c *Coordinator) begin(operation string) time.Time {
	c.orders.OperationStarted()
	if c.metrics != nil {
		c.metrics.RecordStarted(operation)
	}
	return time.Now()
}

// fail сводит отказ в хранилище и готовит исход для вызывающего кода.
func (c *Coordinator) fail(operation, fallback string, started time.Time, err error) *OperationError {
	reason := ExtractMessage(err, fallback)
	c.orders.OperationFailed(reason)
	if c.metrics != nil {
		c.metrics.RecordFailed(operation, time.Since(started))
	}
	c.logger.WithError(err).WithField("operation", operation).Warn("operation failed")
	return &OperationError{Reason: reason, cause: err}
}

func (c *Coordinator) settle(operation string, started time.Time) {
	if c.metrics != nil {
		c.metrics.RecordSucceeded(operation, time.Since(started))
	}
	c.logger.WithField("operation", operation).Debug("operation settled")
}

func (c *Coordinator) runPostCreate(ctx context.Context) {
	if c.clearCart != nil {
		c.clearCart(ctx)
		if c.metrics != nil {
			c.metrics.RecordCartCleared()
		}
		c.publish(kafka.EventTypeCartCleared, metrics.OpCreateOrder, "", nil)
	}
	for _, eff := range c.postCreate {
		eff(ctx)
	}
}

// publish отправляет событие завершения в Kafka, если producer настроен.
// Отказ публикации логируется и не влияет на исход операции.
func (c *Coordinator) publish(eventType kafka.EventType, operation, orderID string, metadata map[string]interface{}) {
	if c.producer == nil {
		return
	}

	event := kafka.NewSettlementEvent(eventType, operation, orderID, metadata)
	key := orderID
	if key == "" {
		key = operation
	}
	if err := c.producer.PublishEvent(kafka.TopicOrderEvents, key, event); err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"operation":  operation,
		}).Warn("failed to publish settlement event to kafka")
		return
	}
	if c.metrics != nil {
		c.metrics.RecordEventPublished()
	}
}
