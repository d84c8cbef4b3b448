package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motahq/mota-sync/internal/gateway"
	"github.com/motahq/mota-sync/internal/models"
)

func updateItem(ts int64) models.SyncItem {
	return models.SyncItem{
		ID:         "i1",
		EntityType: "task",
		EntityID:   "t1",
		Operation:  models.OperationUpdate,
		Data:       json.RawMessage(`{"title":"client"}`),
		Timestamp:  ts,
	}
}

func TestEvaluatorCheck_ServerNewer(t *testing.T) {
	serverRecord := `{"id":"t1","updatedAt":2000}`
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			assert.Equal(t, "/api/v1/tasks/t1", path)
			return &gateway.Response{Data: json.RawMessage(serverRecord)}, nil
		},
	}

	e := NewEvaluator(gw, testLogger())
	serverData, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	require.NoError(t, err)
	require.NotNil(t, serverData)
	assert.JSONEq(t, serverRecord, string(serverData))
}

func TestEvaluatorCheck_ClientNewer(t *testing.T) {
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			return &gateway.Response{Data: json.RawMessage(`{"id":"t1","updatedAt":500}`)}, nil
		},
	}

	e := NewEvaluator(gw, testLogger())
	serverData, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	require.NoError(t, err)
	assert.Nil(t, serverData)
}

// Равные отметки не считаются конфликтом: сравнение строгое
func TestEvaluatorCheck_EqualTimestamps(t *testing.T) {
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			return &gateway.Response{Data: json.RawMessage(`{"id":"t1","updatedAt":1000}`)}, nil
		},
	}

	e := NewEvaluator(gw, testLogger())
	serverData, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	require.NoError(t, err)
	assert.Nil(t, serverData)
}

// Отсутствующая запись не конфликт, мутация идет дальше
func TestEvaluatorCheck_RecordMissing(t *testing.T) {
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			return nil, &gateway.ServiceError{Service: service, Path: path, Status: http.StatusNotFound, Message: "not found"}
		},
	}

	e := NewEvaluator(gw, testLogger())
	serverData, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	require.NoError(t, err)
	assert.Nil(t, serverData)
}

func TestEvaluatorCheck_ReadFailure(t *testing.T) {
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			return nil, &gateway.ServiceError{Service: service, Path: path, Status: 500, Message: "boom"}
		},
	}

	e := NewEvaluator(gw, testLogger())
	_, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	assert.Error(t, err)
}

// Запись без updatedAt не может быть новее клиента
func TestEvaluatorCheck_NoUpdatedAt(t *testing.T) {
	gw := &gateway.ClientMock{
		GetFunc: func(ctx context.Context, service, path string, opts *gateway.RequestOptions, uc models.UserContext) (*gateway.Response, error) {
			return &gateway.Response{Data: json.RawMessage(`{"id":"t1","title":"server"}`)}, nil
		},
	}

	e := NewEvaluator(gw, testLogger())
	serverData, err := e.Check(context.Background(), "task", updateItem(1000), testUC)
	require.NoError(t, err)
	assert.Nil(t, serverData)
}

func TestExtractUpdatedAt(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int64
		ok   bool
	}{
		{
			name: "epoch millis number",
			data: `{"updatedAt":1700000000123}`,
			want: 1700000000123,
			ok:   true,
		},
		{
			name: "rfc3339 string",
			data: `{"updatedAt":"2023-11-14T22:13:20.123Z"}`,
			want: 1700000000123,
			ok:   true,
		},
		{
			name: "rfc3339 without fraction",
			data: `{"updatedAt":"2023-11-14T22:13:20Z"}`,
			want: 1700000000000,
			ok:   true,
		},
		{
			name: "missing field",
			data: `{"id":"t1"}`,
			ok:   false,
		},
		{
			name: "unparsable string",
			data: `{"updatedAt":"yesterday"}`,
			ok:   false,
		},
		{
			name: "not an object",
			data: `[1,2,3]`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractUpdatedAt(json.RawMessage(tt.data))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEntityPaths(t *testing.T) {
	assert.Equal(t, "/api/v1/tasks", collectionPath("task"))
	assert.Equal(t, "/api/v1/documents/d1", entityPath("document", "d1"))
}
