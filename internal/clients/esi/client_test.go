package esi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/universe/types/587/", r.URL.Path)
		_, _ = w.Write([]byte(`{"name": "Rifter", "group_id": 25, "category_id": 6}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	info, err := c.GetType(context.Background(), 587)
	require.NoError(t, err)
	assert.Equal(t, int64(587), info.TypeID)
	assert.Equal(t, "Rifter", info.Name)
	require.NotNil(t, info.GroupID)
	assert.Equal(t, int64(25), *info.GroupID)
}

func TestGetTypeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	defer c.Close()

	_, err := c.GetType(context.Background(), 999999999)
	assert.ErrorIs(t, err, ErrNotFound)
}
