// Package api содержит wire-типы HTTP протокола синхронизации.
// Поля сериализуются в camelCase: этот формат ждут мобильные клиенты.
package api

import "encoding/json"

// SyncItem представляет одну офлайн-мутацию из очереди клиента
type SyncItem struct {
	ID         string          `json:"id"`                 // клиентский идентификатор мутации
	EntityType string          `json:"entityType"`         // task | project | event | document
	EntityID   string          `json:"entityId"`           // идентификатор сущности
	Operation  string          `json:"operation"`          // CREATE | UPDATE | DELETE
	Data       json.RawMessage `json:"data,omitempty"`     // payload сущности
	Timestamp  int64           `json:"timestamp"`          // момент мутации на клиенте, epoch millis
	ClientID   string          `json:"clientId,omitempty"` // идентификатор устройства
}

// SyncRequest представляет батч мутаций от клиента
type SyncRequest struct {
	Items             []SyncItem `json:"items"`
	LastSyncTimestamp int64      `json:"lastSyncTimestamp"` // checkpoint клиента, epoch millis
}

// FailedItem описывает мутацию, которую не удалось применить
type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Conflict описывает мутацию, отвергнутую из-за более свежей серверной версии
type Conflict struct {
	ID         string          `json:"id"`
	ServerData json.RawMessage `json:"serverData"`
	ClientData json.RawMessage `json:"clientData"`
}

// EntityChange одна серверная запись, изменившаяся с прошлого checkpoint
type EntityChange struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SyncResponse итог обработки батча. Success отражает завершение вызова,
// исходы отдельных мутаций смотреть по трём спискам.
type SyncResponse struct {
	Success           bool           `json:"success"`
	SyncedItems       []string       `json:"syncedItems"`
	FailedItems       []FailedItem   `json:"failedItems"`
	Conflicts         []Conflict     `json:"conflicts"`
	ServerChanges     []EntityChange `json:"serverChanges"`
	LastSyncTimestamp int64          `json:"lastSyncTimestamp"`
}

// DeltaSyncResponse изменения по четырём коллекциям с момента updatedSince
type DeltaSyncResponse struct {
	Tasks             []json.RawMessage `json:"tasks"`
	Projects          []json.RawMessage `json:"projects"`
	Events            []json.RawMessage `json:"events"`
	Notifications     []json.RawMessage `json:"notifications"`
	LastSyncTimestamp int64             `json:"lastSyncTimestamp"`
}

// SyncStatusResponse последний checkpoint пользователя.
// null означает, что пользователь ещё не синхронизировался
// или checkpoint истёк.
type SyncStatusResponse struct {
	LastSyncTimestamp *int64 `json:"lastSyncTimestamp"`
}

// ResolveConflictRequest выбор пользователя по конфликту
type ResolveConflictRequest struct {
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Resolution string          `json:"resolution"`           // server | client | merge
	MergedData json.RawMessage `json:"mergedData,omitempty"` // обязателен для client и merge
}

// ResolveConflictResponse каноническое состояние сущности после разрешения
type ResolveConflictResponse struct {
	Data json.RawMessage `json:"data"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
