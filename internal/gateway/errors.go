package gateway

import (
	"errors"
	"fmt"
)

// Common gateway errors
var (
	// ErrUnknownService indicates that no base URL is configured for the service
	ErrUnknownService = errors.New("unknown service")

	// ErrServiceUnavailable indicates that the service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRequestTimeout indicates that the request exceeded its deadline
	ErrRequestTimeout = errors.New("request timeout")
)

// ServiceError represents a non-2xx response from a downstream service
type ServiceError struct {
	Service string
	Path    string
	Message string
	Status  int
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s] %s: status %d: %s", e.Service, e.Path, e.Status, e.Message)
}

// Retryable сообщает, имеет ли смысл повторять запрос.
// Повторяются только серверные ошибки и throttling.
func (e *ServiceError) Retryable() bool {
	return e.Status >= 500 || e.Status == 429
}
