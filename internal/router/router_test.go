package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownTypes(t *testing.T) {
	r := New()

	tests := []struct {
		entityType string
		service    string
	}{
		{"task", "task"},
		{"project", "project"},
		{"event", "calendar"},
		{"document", "knowledge"},
	}

	for _, tt := range tests {
		t.Run(tt.entityType, func(t *testing.T) {
			service, err := r.Resolve(tt.entityType)
			require.NoError(t, err)
			assert.Equal(t, tt.service, service)
		})
	}
}

func TestResolve_UnknownType(t *testing.T) {
	r := New()

	service, err := r.Resolve("bogus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEntityType))
	assert.Contains(t, err.Error(), "bogus")
	assert.Empty(t, service)
}

func TestResolve_EmptyType(t *testing.T) {
	r := New()

	_, err := r.Resolve("")
	assert.True(t, errors.Is(err, ErrUnknownEntityType))
}

func TestEntityTypes(t *testing.T) {
	r := New()

	types := r.EntityTypes()
	assert.Len(t, types, 4)
	assert.ElementsMatch(t, []string{"task", "project", "event", "document"}, types)
}
