package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/models"
)

// Row caps for full sync, per collection
const (
	fullSyncTaskLimit         = 100
	fullSyncProjectLimit      = 50
	fullSyncEventLimit        = 100
	fullSyncNotificationLimit = 50
)

// listQuery один параллельный запрос списка к downstream сервису
type listQuery struct {
	entityType string
	service    string
	path       string
	params     url.Values
}

// listResult результат одного запроса списка
type listResult struct {
	idx  int
	list []json.RawMessage
	err  error
}

// fanOut выполняет запросы параллельно и собирает результаты по индексу.
// Порядок между запросами не важен, join ждет всех.
func (s *service) fanOut(ctx context.Context, queries []listQuery, uc models.UserContext) []listResult {
	ch := make(chan listResult, len(queries))

	for i, q := range queries {
		go func(idx int, q listQuery) {
			resp, err := s.gateway.Get(ctx, q.service, q.path, &gateway.RequestOptions{Params: q.params}, uc)
			if err != nil {
				ch <- listResult{idx: idx, err: err}
				return
			}
			list, err := resp.DataList()
			ch <- listResult{idx: idx, list: list, err: err}
		}(i, q)
	}

	results := make([]listResult, len(queries))
	for range queries {
		r := <-ch
		results[r.idx] = r
	}
	return results
}

// changeQueries запросы "что изменилось на сервере" для sync():
// задачи и проекты scoped на пользователя, события — на арендатора.
func changeQueries(since int64, uc models.UserContext) []listQuery {
	sinceStr := time.UnixMilli(since).UTC().Format(time.RFC3339)

	return []listQuery{
		{
			entityType: "task",
			service:    "task",
			path:       "/api/v1/tasks",
			params:     url.Values{"assigneeId": {uc.UserID}, "updatedSince": {sinceStr}},
		},
		{
			entityType: "project",
			service:    "project",
			path:       "/api/v1/projects",
			params:     url.Values{"memberId": {uc.UserID}, "updatedSince": {sinceStr}},
		},
		{
			entityType: "event",
			service:    "calendar",
			path:       "/api/v1/events",
			params:     url.Values{"updatedSince": {sinceStr}},
		},
	}
}

// fetchServerChanges возвращает серверные изменения с момента since.
// Ошибки отдельных запросов деградируют до пустых списков и не
// проваливают вызов sync() целиком.
func (s *service) fetchServerChanges(ctx context.Context, since int64, uc models.UserContext) []models.EntityChange {
	queries := changeQueries(since, uc)
	results := s.fanOut(ctx, queries, uc)

	changes := []models.EntityChange{}
	for i, q := range queries {
		if results[i].err != nil {
			s.logger.Warn("Server change query degraded to empty",
				"entity_type", q.entityType,
				"service", q.service,
				"error", results[i].err)
			continue
		}
		for _, data := range results[i].list {
			changes = append(changes, models.EntityChange{Type: q.entityType, Data: data})
		}
	}

	return changes
}

// deltaQueries четыре ограниченных по updatedSince/createdSince запроса
func deltaQueries(since int64, uc models.UserContext) []listQuery {
	sinceStr := time.UnixMilli(since).UTC().Format(time.RFC3339)

	return []listQuery{
		{
			entityType: "task",
			service:    "task",
			path:       "/api/v1/tasks",
			params:     url.Values{"assigneeId": {uc.UserID}, "updatedSince": {sinceStr}},
		},
		{
			entityType: "project",
			service:    "project",
			path:       "/api/v1/projects",
			params:     url.Values{"memberId": {uc.UserID}, "updatedSince": {sinceStr}},
		},
		{
			entityType: "event",
			service:    "calendar",
			path:       "/api/v1/events",
			params:     url.Values{"updatedSince": {sinceStr}},
		},
		{
			entityType: "notification",
			service:    "notify",
			path:       "/api/v1/notifications",
			params:     url.Values{"createdSince": {sinceStr}},
		},
	}
}

// fullQueries те же четыре запроса без нижней границы, но с row cap
func fullQueries(uc models.UserContext) []listQuery {
	return []listQuery{
		{
			entityType: "task",
			service:    "task",
			path:       "/api/v1/tasks",
			params:     url.Values{"assigneeId": {uc.UserID}, "limit": {strconv.Itoa(fullSyncTaskLimit)}},
		},
		{
			entityType: "project",
			service:    "project",
			path:       "/api/v1/projects",
			params:     url.Values{"memberId": {uc.UserID}, "limit": {strconv.Itoa(fullSyncProjectLimit)}},
		},
		{
			entityType: "event",
			service:    "calendar",
			path:       "/api/v1/events",
			params:     url.Values{"limit": {strconv.Itoa(fullSyncEventLimit)}},
		},
		{
			entityType: "notification",
			service:    "notify",
			path:       "/api/v1/notifications",
			params:     url.Values{"limit": {strconv.Itoa(fullSyncNotificationLimit)}},
		},
	}
}

// fetchCollections выполняет четыре запроса снимка. В отличие от
// fetchServerChanges любая ошибка проваливает вызов: клиент не должен
// принять неполный снимок за полный.
func (s *service) fetchCollections(ctx context.Context, queries []listQuery, uc models.UserContext) (*models.DeltaData, error) {
	results := s.fanOut(ctx, queries, uc)

	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("failed to fetch %s collection: %w", queries[i].entityType, r.err)
		}
	}

	return &models.DeltaData{
		Tasks:             results[0].list,
		Projects:          results[1].list,
		Events:            results[2].list,
		Notifications:     results[3].list,
		LastSyncTimestamp: s.now().UnixMilli(),
	}, nil
}
