// Package sync реализует ядро офлайн-синхронизации BFF: обработку батча
// клиентских мутаций, обнаружение конфликтов, выдачу серверных изменений
// и разрешение конфликтов.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/motahq/mota-sync/internal/events"
	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/models"
	"github.com/motahq/mota-sync/internal/router"
	"github.com/motahq/mota-sync/internal/status"
)

// Service определяет интерфейс ядра синхронизации
type Service interface {
	// Sync обрабатывает батч офлайн-мутаций и возвращает агрегированный
	// результат вместе с серверными изменениями с момента lastSyncTimestamp
	Sync(ctx context.Context, items []models.SyncItem, lastSyncTimestamp int64, uc models.UserContext) (*models.SyncResult, error)

	// GetDeltaSync возвращает изменения четырёх коллекций с момента lastSyncTimestamp
	GetDeltaSync(ctx context.Context, lastSyncTimestamp int64, uc models.UserContext) (*models.DeltaData, error)

	// GetFullSync возвращает ограниченный по размеру полный снимок коллекций
	GetFullSync(ctx context.Context, uc models.UserContext) (*models.DeltaData, error)

	// GetSyncStatus возвращает checkpoint пользователя (nil — не синхронизировался)
	GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatusInfo, error)

	// ResolveConflict завершает ранее обнаруженный конфликт выбранным способом
	ResolveConflict(ctx context.Context, entityType, entityID string, resolution models.Resolution, mergedData json.RawMessage, uc models.UserContext) (json.RawMessage, error)
}

// service orchestrates the sync flow between client batches and downstream services
type service struct {
	gateway     gateway.Client
	router      *router.Router
	statusStore status.Store
	evaluator   *Evaluator
	publisher   events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewService создает ядро синхронизации
func NewService(gw gateway.Client, r *router.Router, statusStore status.Store, publisher events.Publisher, logger *slog.Logger) Service {
	return &service{
		gateway:     gw,
		router:      r,
		statusStore: statusStore,
		evaluator:   NewEvaluator(gw, logger),
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// Sync выполняет один проход по батчу:
// 1. Мутации применяются строго последовательно в порядке отправки —
//    поздние элементы батча могут зависеть от ранних по той же сущности.
// 2. Серверные изменения с момента lastSyncTimestamp запрашиваются
//    параллельно и деградируют до пустого списка при ошибках.
// 3. Новый checkpoint сохраняется независимо от исходов элементов.
// Ошибка отдельного элемента никогда не прерывает батч.
func (s *service) Sync(ctx context.Context, items []models.SyncItem, lastSyncTimestamp int64, uc models.UserContext) (*models.SyncResult, error) {
	s.logger.Info("Starting synchronization",
		"user_id", uc.UserID,
		"items", len(items),
		"since", lastSyncTimestamp)

	result := &models.SyncResult{
		Success:       true,
		SyncedItems:   []string{},
		FailedItems:   []models.FailedItem{},
		Conflicts:     []models.Conflict{},
		ServerChanges: []models.EntityChange{},
	}

	for _, item := range items {
		s.processItem(ctx, item, uc, result)
	}

	result.ServerChanges = s.fetchServerChanges(ctx, lastSyncTimestamp, uc)

	result.LastSyncTimestamp = s.advanceCheckpoint(ctx, uc.UserID)

	s.logger.Info("Synchronization completed",
		"user_id", uc.UserID,
		"synced", len(result.SyncedItems),
		"failed", len(result.FailedItems),
		"conflicts", len(result.Conflicts),
		"server_changes", len(result.ServerChanges))

	s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeSyncCompleted,
		UserID:     uc.UserID,
		OccurredAt: s.now(),
		Payload: events.SyncCompleted{
			TenantID: uc.TenantID,
			Items:    items,
			Result:   result,
		},
	})

	return result, nil
}

// processItem обрабатывает одну мутацию и кладет её ровно в одну из
// корзин результата: syncedItems, failedItems или conflicts.
func (s *service) processItem(ctx context.Context, item models.SyncItem, uc models.UserContext, result *models.SyncResult) {
	if err := item.Validate(); err != nil {
		result.FailedItems = append(result.FailedItems, models.FailedItem{ID: item.ID, Error: err.Error()})
		return
	}

	serviceName, err := s.router.Resolve(item.EntityType)
	if err != nil {
		result.FailedItems = append(result.FailedItems, models.FailedItem{ID: item.ID, Error: err.Error()})
		return
	}

	// Конфликты проверяются только для UPDATE; CREATE и DELETE
	// применяются оптимистично без предварительного чтения
	if item.Operation == models.OperationUpdate {
		serverData, err := s.evaluator.Check(ctx, serviceName, item, uc)
		if err != nil {
			result.FailedItems = append(result.FailedItems, models.FailedItem{ID: item.ID, Error: err.Error()})
			return
		}
		if serverData != nil {
			result.Conflicts = append(result.Conflicts, models.Conflict{
				ID:         item.ID,
				ServerData: serverData,
				ClientData: item.Data,
			})
			s.publisher.Publish(ctx, events.Event{
				Type:       events.TypeConflictDetected,
				UserID:     uc.UserID,
				OccurredAt: s.now(),
				Payload: events.ConflictDetected{
					ItemID:     item.ID,
					EntityType: item.EntityType,
					EntityID:   item.EntityID,
				},
			})
			return
		}
	}

	if err := s.dispatch(ctx, serviceName, item, uc); err != nil {
		result.FailedItems = append(result.FailedItems, models.FailedItem{ID: item.ID, Error: err.Error()})
		return
	}

	result.SyncedItems = append(result.SyncedItems, item.ID)
}

// dispatch отправляет мутацию в downstream сервис
func (s *service) dispatch(ctx context.Context, serviceName string, item models.SyncItem, uc models.UserContext) error {
	var err error
	switch item.Operation {
	case models.OperationCreate:
		_, err = s.gateway.Post(ctx, serviceName, collectionPath(item.EntityType), item.Data, nil, uc)
	case models.OperationUpdate:
		_, err = s.gateway.Put(ctx, serviceName, entityPath(item.EntityType, item.EntityID), item.Data, nil, uc)
	case models.OperationDelete:
		_, err = s.gateway.Delete(ctx, serviceName, entityPath(item.EntityType, item.EntityID), nil, uc)
	default:
		err = fmt.Errorf("unsupported operation: %s", item.Operation)
	}
	return err
}

// advanceCheckpoint сохраняет новый checkpoint и возвращает его.
// Checkpoint монотонно не убывает: часы, ушедшие назад, или гонка
// параллельных sync() не откатывают его.
func (s *service) advanceCheckpoint(ctx context.Context, userID string) int64 {
	checkpoint := s.now().UnixMilli()

	if prev, err := s.statusStore.Get(ctx, userID); err == nil && prev.LastSyncTimestamp > checkpoint {
		checkpoint = prev.LastSyncTimestamp
	} else if err != nil && !errors.Is(err, status.ErrStatusNotFound) {
		s.logger.Warn("Failed to read previous sync checkpoint", "user_id", userID, "error", err)
	}

	if err := s.statusStore.Save(ctx, userID, &status.SyncStatus{LastSyncTimestamp: checkpoint}); err != nil {
		// Ответ клиенту важнее сохранности checkpoint'а
		s.logger.Warn("Failed to save sync checkpoint", "user_id", userID, "error", err)
	}

	return checkpoint
}

// GetDeltaSync возвращает изменения с момента lastSyncTimestamp.
// Чистое чтение: ни логики конфликтов, ни изменения checkpoint'а.
func (s *service) GetDeltaSync(ctx context.Context, lastSyncTimestamp int64, uc models.UserContext) (*models.DeltaData, error) {
	return s.fetchCollections(ctx, deltaQueries(lastSyncTimestamp, uc), uc)
}

// GetFullSync возвращает полный снимок с row cap на коллекцию.
// Используется при первом запуске клиента и при протухшем checkpoint'е.
func (s *service) GetFullSync(ctx context.Context, uc models.UserContext) (*models.DeltaData, error) {
	return s.fetchCollections(ctx, fullQueries(uc), uc)
}

// GetSyncStatus возвращает checkpoint пользователя
func (s *service) GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatusInfo, error) {
	st, err := s.statusStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, status.ErrStatusNotFound) {
			return &models.SyncStatusInfo{}, nil
		}
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	return &models.SyncStatusInfo{LastSyncTimestamp: &st.LastSyncTimestamp}, nil
}

// ResolveConflict завершает конфликт, ранее отданный клиенту.
// server — перечитать и вернуть серверную версию, записей нет;
// client и merge — одна PUT запись финального значения с forceUpdate,
// чтобы downstream сервис пропустил свой optimistic-lock.
func (s *service) ResolveConflict(ctx context.Context, entityType, entityID string, resolution models.Resolution, mergedData json.RawMessage, uc models.UserContext) (json.RawMessage, error) {
	if !resolution.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResolution, resolution)
	}

	serviceName, err := s.router.Resolve(entityType)
	if err != nil {
		return nil, err
	}

	if resolution == models.ResolutionServer {
		resp, err := s.gateway.Get(ctx, serviceName, entityPath(entityType, entityID), nil, uc)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch server version: %w", err)
		}
		return resp.Data, nil
	}

	// client и merge различаются только на стороне клиента:
	// в обоих случаях записывается присланное финальное значение
	body, err := withForceUpdate(mergedData)
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Put(ctx, serviceName, entityPath(entityType, entityID), body, nil, uc)
	if err != nil {
		return nil, fmt.Errorf("failed to write resolved value: %w", err)
	}

	s.logger.Info("Conflict resolved",
		"user_id", uc.UserID,
		"entity_type", entityType,
		"entity_id", entityID,
		"resolution", string(resolution))

	return resp.Data, nil
}

// withForceUpdate добавляет флаг forceUpdate в финальное значение
func withForceUpdate(mergedData json.RawMessage) (map[string]any, error) {
	body := map[string]any{}
	if len(mergedData) > 0 && string(mergedData) != "null" {
		if err := json.Unmarshal(mergedData, &body); err != nil {
			return nil, fmt.Errorf("merged data must be a JSON object: %w", err)
		}
	}
	body["forceUpdate"] = true
	return body, nil
}
