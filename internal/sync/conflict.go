package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/models"
)

// Evaluator решает судьбу одной UPDATE мутации по эвристике last-writer:
// свежее чтение текущей серверной записи сравнивается с клиентским
// timestamp мутации. CREATE и DELETE сюда не попадают — они применяются
// оптимистично, без предварительного чтения.
type Evaluator struct {
	gateway gateway.Client
	logger  *slog.Logger
}

// NewEvaluator создает evaluator конфликтов
func NewEvaluator(gw gateway.Client, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		gateway: gw,
		logger:  logger,
	}
}

// Check выполняет свежее чтение серверной записи и сравнивает её updatedAt
// с timestamp мутации. Возвращает серверные данные при конфликте, nil если
// мутацию можно применять. Отсутствующая на сервере запись (например,
// удалённая) конфликтом не считается: мутация идёт дальше, и downstream
// сервис сам вернёт ошибку, если отвергнет её.
func (e *Evaluator) Check(ctx context.Context, service string, item models.SyncItem, uc models.UserContext) (json.RawMessage, error) {
	resp, err := e.gateway.Get(ctx, service, entityPath(item.EntityType, item.EntityID), nil, uc)
	if err != nil {
		var svcErr *gateway.ServiceError
		if errors.As(err, &svcErr) && svcErr.Status == http.StatusNotFound {
			e.logger.Debug("Server record missing, applying optimistically",
				"entity_type", item.EntityType,
				"entity_id", item.EntityID)
			return nil, nil
		}
		return nil, err
	}

	updatedAt, ok := extractUpdatedAt(resp.Data)
	if !ok {
		// Запись без updatedAt сравнивать не с чем — применяем
		return nil, nil
	}

	// Сервер изменён после того, как клиент записал свою мутацию
	if updatedAt > item.Timestamp {
		e.logger.Info("Conflict detected",
			"item_id", item.ID,
			"entity_type", item.EntityType,
			"entity_id", item.EntityID,
			"server_updated_at", updatedAt,
			"client_timestamp", item.Timestamp)
		return resp.Data, nil
	}

	return nil, nil
}

// extractUpdatedAt достает updatedAt из серверной записи.
// Downstream сервисы отдают либо RFC3339 строку, либо epoch millis.
func extractUpdatedAt(data json.RawMessage) (int64, bool) {
	if len(data) == 0 {
		return 0, false
	}

	var record struct {
		UpdatedAt json.RawMessage `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &record); err != nil || len(record.UpdatedAt) == 0 {
		return 0, false
	}

	var millis int64
	if err := json.Unmarshal(record.UpdatedAt, &millis); err == nil {
		return millis, true
	}

	var stamp string
	if err := json.Unmarshal(record.UpdatedAt, &stamp); err == nil {
		if parsed, err := time.Parse(time.RFC3339Nano, stamp); err == nil {
			return parsed.UnixMilli(), true
		}
	}

	return 0, false
}

// collectionPath путь коллекции сущностей: /api/v1/{entityType}s
func collectionPath(entityType string) string {
	return "/api/v1/" + entityType + "s"
}

// entityPath путь конкретной сущности: /api/v1/{entityType}s/{entityId}
func entityPath(entityType, entityID string) string {
	return collectionPath(entityType) + "/" + entityID
}
