package orders

import (
	"errors"

	"github.com/chinmay-meghare/buyzzie-sub001/internal/domain"
)

// ExtractMessage приводит ошибку операции к человекочитаемому сообщению.
// Порядок источников фиксированный: вложенное поле error из ответа backend,
// затем текст транспортной ошибки, затем fallback операции. Транспортные и
// прикладные отказы дальше этой цепочки не различаются.
func ExtractMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var backendErr *domain.BackendError
	if errors.As(err, &backendErr) && backendErr.ErrorField != "" {
		return backendErr.ErrorField
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
