package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motahq/mota-sync/internal/models"
)

func newTestClient(serverURL string, maxRetries int) *HTTPClient {
	return NewHTTPClient(Options{
		Services:   map[string]string{"task": serverURL},
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
	})
}

// TestHTTPClient_Get проверяет успешный GET с конвертом ответа
func TestHTTPClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/v1/tasks/t1", r.URL.Path)
		assert.Equal(t, "u1", r.Header.Get("X-User-Id"))
		assert.Equal(t, "tenant1", r.Header.Get("X-Tenant-Id"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    0,
			"message": "ok",
			"data":    map[string]any{"id": "t1", "title": "test"},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	resp, err := client.Get(context.Background(), "task", "/api/v1/tasks/t1", nil, models.UserContext{UserID: "u1", TenantID: "tenant1"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Message)
	assert.JSONEq(t, `{"id":"t1","title":"test"}`, string(resp.Data))
	assert.Greater(t, resp.Elapsed, time.Duration(0))
}

// TestHTTPClient_Get_QueryParams проверяет передачу query параметров
func TestHTTPClient_Get_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.URL.Query().Get("assigneeId"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": []any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	params := url.Values{}
	params.Set("assigneeId", "u1")
	params.Set("limit", "100")

	resp, err := client.Get(context.Background(), "task", "/api/v1/tasks", &RequestOptions{Params: params}, models.UserContext{UserID: "u1"})
	require.NoError(t, err)

	list, err := resp.DataList()
	require.NoError(t, err)
	assert.Empty(t, list)
}

// TestHTTPClient_Put проверяет PUT с JSON телом
func TestHTTPClient_Put(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x", body["title"])

		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": body})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0)

	resp, err := client.Put(context.Background(), "task", "/api/v1/tasks/t1", map[string]any{"title": "x"}, nil, models.UserContext{UserID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x"}`, string(resp.Data))
}

// TestHTTPClient_ServiceError проверяет таксономию ошибок для non-2xx ответов
func TestHTTPClient_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 404, "message": "task not found"})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 3)

	_, err := client.Get(context.Background(), "task", "/api/v1/tasks/missing", nil, models.UserContext{UserID: "u1"})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusNotFound, svcErr.Status)
	assert.Equal(t, "task not found", svcErr.Message)
	assert.Equal(t, "task", svcErr.Service)
	assert.False(t, svcErr.Retryable())
}

// TestHTTPClient_Get_RetriesTransient проверяет повтор GET после 503
func TestHTTPClient_Get_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "data": map[string]any{"id": "t1"}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, 2)

	resp, err := client.Get(context.Background(), "task", "/api/v1/tasks/t1", nil, models.UserContext{UserID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1"}`, string(resp.Data))
	assert.Equal(t, int32(2), calls.Load())
}

// TestHTTPClient_Post_NoRetry проверяет, что мутации не повторяются
func TestHTTPClient_Post_NoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 5)

	_, err := client.Post(context.Background(), "task", "/api/v1/tasks", map[string]any{"title": "x"}, nil, models.UserContext{UserID: "u1"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

// TestHTTPClient_UnknownService проверяет ошибку для несконфигурированного сервиса
func TestHTTPClient_UnknownService(t *testing.T) {
	client := newTestClient("http://localhost:0", 0)

	_, err := client.Get(context.Background(), "billing", "/api/v1/invoices", nil, models.UserContext{UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownService)
	assert.Contains(t, err.Error(), "billing")
}

// TestHTTPClient_Unavailable проверяет классификацию сетевой ошибки
func TestHTTPClient_Unavailable(t *testing.T) {
	// Закрытый сервер гарантирует connection refused
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL, 0)

	_, err := client.Get(context.Background(), "task", "/api/v1/tasks/t1", nil, models.UserContext{UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

// TestHTTPClient_ServiceToken проверяет подпись и claims межсервисного токена
func TestHTTPClient_ServiceToken(t *testing.T) {
	secret := "test-secret"

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0})
	}))
	defer server.Close()

	client := NewHTTPClient(Options{
		Services: map[string]string{"task": server.URL},
		Signer:   NewTokenSigner(secret, "mota-sync", time.Minute),
	})

	_, err := client.Get(context.Background(), "task", "/api/v1/tasks/t1", nil, models.UserContext{UserID: "u1", TenantID: "tn1"})
	require.NoError(t, err)

	require.True(t, len(gotAuth) > 7 && gotAuth[:7] == "Bearer ")

	token, err := jwt.Parse(gotAuth[7:], func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "u1", claims["sub"])
	assert.Equal(t, "tn1", claims["tid"])
	assert.Equal(t, "mota-sync", claims["iss"])
}
