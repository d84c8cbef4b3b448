package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/models"
	"github.com/motahq/mota-sync/internal/router"
	syncsvc "github.com/motahq/mota-sync/internal/sync"
	"github.com/motahq/mota-sync/pkg/api"
)

// SyncService определяет интерфейс движка синхронизации
type SyncService interface {
	Sync(ctx context.Context, items []models.SyncItem, lastSyncTimestamp int64, uc models.UserContext) (*models.SyncResult, error)
	GetDeltaSync(ctx context.Context, lastSyncTimestamp int64, uc models.UserContext) (*models.DeltaData, error)
	GetFullSync(ctx context.Context, uc models.UserContext) (*models.DeltaData, error)
	GetSyncStatus(ctx context.Context, userID string) (*models.SyncStatusInfo, error)
	ResolveConflict(ctx context.Context, entityType, entityID string, resolution models.Resolution, mergedData json.RawMessage, uc models.UserContext) (json.RawMessage, error)
}

// SyncHandler обрабатывает HTTP запросы протокола синхронизации
type SyncHandler struct {
	logger  *slog.Logger
	service SyncService
}

// NewSyncHandler создает новый sync handler
func NewSyncHandler(logger *slog.Logger, service SyncService) *SyncHandler {
	return &SyncHandler{
		logger:  logger,
		service: service,
	}
}

// HandleSync обрабатывает POST /api/v1/sync
// Принимает батч офлайн-мутаций и возвращает итог по каждой
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uc, ok := GetUserContext(ctx)
	if !ok {
		h.logger.Error("User context not found in request context")
		writeError(w, h.logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req api.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode sync request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	h.logger.Info("POST sync request",
		"user_id", uc.UserID,
		"tenant_id", uc.TenantID,
		"items_count", len(req.Items),
		"last_sync_timestamp", req.LastSyncTimestamp)

	items := make([]models.SyncItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.SyncItem{
			ID:         it.ID,
			EntityType: it.EntityType,
			EntityID:   it.EntityID,
			Operation:  models.Operation(it.Operation),
			Data:       it.Data,
			Timestamp:  it.Timestamp,
			ClientID:   it.ClientID,
		})
	}

	result, err := h.service.Sync(ctx, items, req.LastSyncTimestamp, uc)
	if err != nil {
		h.logger.Error("Sync failed", "error", err, "user_id", uc.UserID)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toSyncResponse(result))

	h.logger.Info("POST sync completed",
		"user_id", uc.UserID,
		"synced", len(result.SyncedItems),
		"failed", len(result.FailedItems),
		"conflicts", len(result.Conflicts),
		"server_changes", len(result.ServerChanges))
}

// HandleDelta обрабатывает GET /api/v1/sync/delta?lastSyncTimestamp=millis
func (h *SyncHandler) HandleDelta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uc, ok := GetUserContext(ctx)
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	since, err := parseTimestampParam(r, "lastSyncTimestamp")
	if err != nil {
		h.logger.Warn("Invalid lastSyncTimestamp parameter", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid lastSyncTimestamp parameter", "")
		return
	}

	delta, err := h.service.GetDeltaSync(ctx, since, uc)
	if err != nil {
		h.logger.Error("Delta sync failed", "error", err, "user_id", uc.UserID)
		writeDownstreamError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toDeltaResponse(delta))
}

// HandleFull обрабатывает GET /api/v1/sync/full
// Возвращает ограниченный снимок всех коллекций пользователя
func (h *SyncHandler) HandleFull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uc, ok := GetUserContext(ctx)
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	delta, err := h.service.GetFullSync(ctx, uc)
	if err != nil {
		h.logger.Error("Full sync failed", "error", err, "user_id", uc.UserID)
		writeDownstreamError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, toDeltaResponse(delta))
}

// HandleStatus обрабатывает GET /api/v1/sync/status
func (h *SyncHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	info, err := h.service.GetSyncStatus(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to read sync status", "error", err, "user_id", userID)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.SyncStatusResponse{
		LastSyncTimestamp: info.LastSyncTimestamp,
	})
}

// HandleResolve обрабатывает POST /api/v1/sync/resolve
func (h *SyncHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	uc, ok := GetUserContext(ctx)
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var req api.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode resolve request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	h.logger.Info("Resolve conflict request",
		"user_id", uc.UserID,
		"entity_type", req.EntityType,
		"entity_id", req.EntityID,
		"resolution", req.Resolution)

	data, err := h.service.ResolveConflict(ctx, req.EntityType, req.EntityID, models.Resolution(req.Resolution), req.MergedData, uc)
	if err != nil {
		switch {
		case errors.Is(err, syncsvc.ErrInvalidResolution):
			writeError(w, h.logger, http.StatusBadRequest, "Invalid resolution", req.Resolution)
		case errors.Is(err, router.ErrUnknownEntityType):
			writeError(w, h.logger, http.StatusBadRequest, "Unknown entity type", req.EntityType)
		default:
			h.logger.Error("Resolve conflict failed", "error", err, "user_id", uc.UserID)
			writeDownstreamError(w, h.logger, err)
		}
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ResolveConflictResponse{Data: data})
}

// parseTimestampParam парсит epoch millis из query. Отсутствующий
// параметр равен нулю, это полная дельта с начала времен.
func parseTimestampParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// toSyncResponse конвертирует результат движка в API формат
func toSyncResponse(result *models.SyncResult) api.SyncResponse {
	failed := make([]api.FailedItem, 0, len(result.FailedItems))
	for _, f := range result.FailedItems {
		failed = append(failed, api.FailedItem{ID: f.ID, Error: f.Error})
	}

	conflicts := make([]api.Conflict, 0, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflicts = append(conflicts, api.Conflict{
			ID:         c.ID,
			ServerData: c.ServerData,
			ClientData: c.ClientData,
		})
	}

	changes := make([]api.EntityChange, 0, len(result.ServerChanges))
	for _, ch := range result.ServerChanges {
		changes = append(changes, api.EntityChange{Type: ch.Type, Data: ch.Data})
	}

	return api.SyncResponse{
		Success:           result.Success,
		SyncedItems:       result.SyncedItems,
		FailedItems:       failed,
		Conflicts:         conflicts,
		ServerChanges:     changes,
		LastSyncTimestamp: result.LastSyncTimestamp,
	}
}

func toDeltaResponse(delta *models.DeltaData) api.DeltaSyncResponse {
	return api.DeltaSyncResponse{
		Tasks:             delta.Tasks,
		Projects:          delta.Projects,
		Events:            delta.Events,
		Notifications:     delta.Notifications,
		LastSyncTimestamp: delta.LastSyncTimestamp,
	}
}

// writeJSON сериализует ответ с кодом статуса
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError сериализует ErrorResponse
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, errMsg, detail string) {
	writeJSON(w, logger, status, api.ErrorResponse{Error: errMsg, Message: detail})
}

// writeDownstreamError транслирует ошибки downstream сервисов в статус BFF:
// недоступность и таймаут это 502/504, остальное 500
func writeDownstreamError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var svcErr *gateway.ServiceError

	switch {
	case errors.Is(err, gateway.ErrRequestTimeout):
		writeError(w, logger, http.StatusGatewayTimeout, "Downstream timeout", "")
	case errors.Is(err, gateway.ErrServiceUnavailable):
		writeError(w, logger, http.StatusBadGateway, "Downstream unavailable", "")
	case errors.As(err, &svcErr):
		writeError(w, logger, http.StatusBadGateway, "Downstream error", svcErr.Message)
	default:
		writeError(w, logger, http.StatusInternalServerError, "Internal server error", "")
	}
}
