// Package events реализует внутрипроцессный publish/subscribe для событий
// синхронизации. Шина внедряется явно, подписчики регистрируются при
// сборке приложения, а не через глобальное состояние.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/motahq/mota-sync/internal/models"
)

// Type тип события
type Type string

const (
	// TypeSyncCompleted батч мутаций обработан (независимо от исходов элементов)
	TypeSyncCompleted Type = "sync.completed"
	// TypeConflictDetected обнаружен конфликт на UPDATE мутации
	TypeConflictDetected Type = "sync.conflict"
)

// Event событие синхронизации
type Event struct {
	Type       Type
	UserID     string
	OccurredAt time.Time
	Payload    any
}

// SyncCompleted полезная нагрузка события TypeSyncCompleted
type SyncCompleted struct {
	TenantID string
	Items    []models.SyncItem
	Result   *models.SyncResult
}

// ConflictDetected полезная нагрузка события TypeConflictDetected
type ConflictDetected struct {
	ItemID     string
	EntityType string
	EntityID   string
}

// Publisher публикует события синхронизации
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Handler обрабатывает одно событие. Обработчики вызываются синхронно
// и не должны блокировать надолго.
type Handler func(ctx context.Context, event Event)

// Bus внутрипроцессная шина событий
type Bus struct {
	logger   *slog.Logger
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewBus создает пустую шину событий
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		logger:   logger,
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe регистрирует обработчик для типа события.
// Вызывается при сборке приложения, до начала публикаций.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish доставляет событие всем подписчикам типа.
// Panic в обработчике не прерывает ни доставку, ни вызывающего.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, h, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				"event_type", string(event.Type),
				"panic", r)
		}
	}()
	h(ctx, event)
}

// NopPublisher шина-заглушка для тестов и конфигураций без подписчиков
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, event Event) {}
