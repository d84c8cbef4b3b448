package models

import (
	"encoding/json"
	"fmt"
)

// Operation тип операции, записанной клиентом в offline-очередь
type Operation string

// Допустимые операции синхронизации (закрытое перечисление)
const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// Valid проверяет, что операция входит в закрытое перечисление
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// SyncItem представляет одну мутацию, записанную клиентом offline.
// ID — идентификатор самой мутации (генерируется клиентом), не сущности.
type SyncItem struct {
	ID         string          `json:"id"`         // ID уникальный идентификатор мутации
	EntityType string          `json:"entityType"` // EntityType логический тип сущности: task, project, event, document
	EntityID   string          `json:"entityId"`   // EntityID идентификатор сущности на сервере
	Operation  Operation       `json:"operation"`  // Operation CREATE, UPDATE или DELETE
	Data       json.RawMessage `json:"data"`       // Data поля сущности (непрозрачны для sync engine), игнорируется для DELETE
	Timestamp  int64           `json:"timestamp"`  // Timestamp клиентское время мутации (epoch millis), версия клиента для сравнения конфликтов
	ClientID   string          `json:"clientId"`   // ClientID идентификатор устройства (только для аудита)
}

// Validate проверяет обязательные поля мутации
func (i *SyncItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("sync item: missing id")
	}
	if i.EntityType == "" {
		return fmt.Errorf("sync item %s: missing entity type", i.ID)
	}
	if !i.Operation.Valid() {
		return fmt.Errorf("sync item %s: invalid operation %q", i.ID, i.Operation)
	}
	return nil
}

// FailedItem описывает мутацию, завершившуюся ошибкой (не конфликтом)
type FailedItem struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Conflict описывает мутацию, отклонённую из-за более свежей записи на сервере.
// Содержит обе версии, чтобы клиент мог показать пользователю выбор.
type Conflict struct {
	ID         string          `json:"id"`
	ServerData json.RawMessage `json:"serverData"`
	ClientData json.RawMessage `json:"clientData"`
}

// EntityChange одна сущность, изменённая на сервере и ещё не полученная клиентом
type EntityChange struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SyncResult итог обработки одного батча мутаций.
// Success отражает завершение вызова в целом: конфликты и ошибки
// отдельных элементов его НЕ сбрасывают.
type SyncResult struct {
	Success           bool           `json:"success"`
	SyncedItems       []string       `json:"syncedItems"`
	FailedItems       []FailedItem   `json:"failedItems"`
	Conflicts         []Conflict     `json:"conflicts"`
	ServerChanges     []EntityChange `json:"serverChanges"`
	LastSyncTimestamp int64          `json:"lastSyncTimestamp"`
}

// DeltaData снимок данных для delta/full синхронизации: четыре коллекции
// плюс информационный timestamp (не выводится из результатов запросов).
type DeltaData struct {
	Tasks             []json.RawMessage `json:"tasks"`
	Projects          []json.RawMessage `json:"projects"`
	Events            []json.RawMessage `json:"events"`
	Notifications     []json.RawMessage `json:"notifications"`
	LastSyncTimestamp int64             `json:"lastSyncTimestamp"`
}

// Resolution способ разрешения конфликта, выбранный клиентом
type Resolution string

const (
	// ResolutionServer принять серверную версию, ничего не записывать
	ResolutionServer Resolution = "server"
	// ResolutionClient записать клиентскую версию поверх серверной
	ResolutionClient Resolution = "client"
	// ResolutionMerge записать вручную слитую клиентом версию
	ResolutionMerge Resolution = "merge"
)

// Valid проверяет, что способ разрешения известен
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionServer, ResolutionClient, ResolutionMerge:
		return true
	}
	return false
}

// SyncStatusInfo статус синхронизации пользователя.
// LastSyncTimestamp == nil означает, что пользователь ещё не синхронизировался
// либо его checkpoint протух (клиенту следует выполнить full sync).
type SyncStatusInfo struct {
	LastSyncTimestamp *int64 `json:"lastSyncTimestamp"`
}

// UserContext контекст пользователя/арендатора, передаваемый downstream сервисам
type UserContext struct {
	UserID   string
	TenantID string
}
