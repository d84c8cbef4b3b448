// Package gateway предоставляет доступ к downstream микросервисам Mota
// от имени пользователя/арендатора. Sync engine зависит только от интерфейса
// Client; HTTP реализация живет в этом же пакете.
package gateway

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/motahq/mota-sync/internal/models"
)

//go:generate moq -out gateway_mock.go . Client

// Client определяет интерфейс для вызовов downstream сервисов
type Client interface {
	// Get выполняет GET запрос к сервису
	Get(ctx context.Context, service, path string, opts *RequestOptions, uc models.UserContext) (*Response, error)

	// Post выполняет POST запрос с JSON телом
	Post(ctx context.Context, service, path string, body any, opts *RequestOptions, uc models.UserContext) (*Response, error)

	// Put выполняет PUT запрос с JSON телом
	Put(ctx context.Context, service, path string, body any, opts *RequestOptions, uc models.UserContext) (*Response, error)

	// Delete выполняет DELETE запрос
	Delete(ctx context.Context, service, path string, opts *RequestOptions, uc models.UserContext) (*Response, error)
}

// RequestOptions дополнительные параметры одного запроса
type RequestOptions struct {
	Headers map[string]string // Headers дополнительные заголовки
	Params  url.Values        // Params query-параметры
	Timeout time.Duration     // Timeout переопределяет таймаут по умолчанию
}

// Response конверт ответа downstream сервиса
type Response struct {
	Code    int             `json:"code"`    // Code код ответа сервиса
	Message string          `json:"message"` // Message сообщение сервиса
	Data    json.RawMessage `json:"data"`    // Data полезная нагрузка
	Elapsed time.Duration   `json:"-"`       // Elapsed длительность запроса
}

// DataList декодирует Data как JSON массив.
// Пустое или отсутствующее тело трактуется как пустой список.
func (r *Response) DataList() ([]json.RawMessage, error) {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return []json.RawMessage{}, nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(r.Data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
