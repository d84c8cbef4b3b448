// Package router отображает логический тип сущности на имя downstream сервиса,
// который за неё отвечает. Чистая таблица соответствий без состояния.
package router

import (
	"errors"
	"fmt"
)

// ErrUnknownEntityType возвращается для типа сущности без записи в таблице
var ErrUnknownEntityType = errors.New("unknown entity type")

// Router разрешает тип сущности в имя сервиса
type Router struct {
	services map[string]string
}

// New создает router со стандартной таблицей сущностей Mota.
// Расширяется добавлением записей, а не ветвлением в вызывающем коде.
func New() *Router {
	return &Router{
		services: map[string]string{
			"task":     "task",
			"project":  "project",
			"event":    "calendar",
			"document": "knowledge",
		},
	}
}

// Resolve возвращает имя сервиса для типа сущности.
// Неизвестный тип — видимая вызывающему ошибка, не panic.
func (r *Router) Resolve(entityType string) (string, error) {
	service, ok := r.services[entityType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return service, nil
}

// EntityTypes возвращает список известных типов сущностей (для диагностики)
func (r *Router) EntityTypes() []string {
	types := make([]string, 0, len(r.services))
	for t := range r.services {
		types = append(types, t)
	}
	return types
}
