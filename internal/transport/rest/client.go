// Package rest реализует OrderGateway поверх HTTP/JSON API витрины.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

const (
	ordersPath = "/api/orders"

	headerIdempotencyKey = "Idempotency-Key"
)

// Client — JSON-клиент backend витрины.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Entry
}

// NewClient создаёт клиент для указанного адреса backend. Таймаут относится
// к каждому запросу целиком; ноль означает таймаут по умолчанию 10 секунд.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New().WithField("component", "rest-client")
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// errorBody — формы сообщения об ошибке, которые может вернуть backend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// orderEnvelope покрывает оба формата успешного ответа: {"order": {...}}
// и заказ без обёртки.
type orderEnvelope struct {
	Order *domain.Order `json:"order"`
}

type listEnvelope struct {
	Orders []domain.Order `json:"orders"`
}

// CreateOrder отправляет черновик на POST /api/orders. Каждая попытка несёт
// свой Idempotency-Key, чтобы backend мог отсеять повторную доставку.
func (c *Client) CreateOrder(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("marshal order draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerIdempotencyKey, uuid.NewString())

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeOrder(data)
}

// ListOrders запрашивает GET /api/orders. Повреждённое или пустое тело
// деградирует до пустого списка, а не до ошибки.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ordersPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var wrapped listEnvelope
	if jsonErr := json.Unmarshal(data, &wrapped); jsonErr == nil && wrapped.Orders != nil {
		return wrapped.Orders, nil
	}

	// Backend может вернуть список без обёртки.
	var bare []domain.Order
	if jsonErr := json.Unmarshal(data, &bare); jsonErr == nil && bare != nil {
		return bare, nil
	}

	c.logger.Warn("orders list payload is empty or malformed, falling back to empty list")
	return []domain.Order{}, nil
}

// GetOrder запрашивает GET /api/orders/{id}.
func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, domain.ErrOrderIDRequired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ordersPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build get request: %w", err)
	}

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeOrder(data)
}

// Ping проверяет доступность backend для readiness-проверки.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ordersPath, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	_, err = c.do(req)
	return err
}

// do выполняет запрос и возвращает тело успешного ответа. Ответ со статусом
// 4xx/5xx превращается в *domain.BackendError с обеими формами сообщения.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var body errorBody
		// Повреждённое тело ошибки не скрывает сам отказ.
		_ = json.Unmarshal(data, &body)
		c.logger.WithFields(log.Fields{
			"status": resp.StatusCode,
			"path":   req.URL.Path,
		}).Debug("backend rejected request")
		return nil, &domain.BackendError{
			StatusCode: resp.StatusCode,
			ErrorField: body.Error,
			Message:    body.Message,
		}
	}

	return data, nil
}

// decodeOrder принимает и {"order": {...}}, и заказ без обёртки; пустой
// ответ даёт (nil, nil) — деградированный успех.
func decodeOrder(data []byte) (*domain.Order, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var wrapped orderEnvelope
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Order != nil {
		return wrapped.Order, nil
	}

	var bare domain.Order
	if err := json.Unmarshal(data, &bare); err == nil && bare.ID != "" {
		return &bare, nil
	}

	return nil, nil
}

var _ domain.OrderGateway = (*Client)(nil)
