package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var gotID int64
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Auth(next)

	t.Run("ID кладётся в контекст", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/resources/1/maintenance", nil)
		req.Header.Set(UserIDHeader, "77")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, int64(77), gotID)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"нет заголовка", ""},
		{"не число", "admin"},
		{"ноль", "0"},
		{"отрицательный", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOK = false
			req := httptest.NewRequest(http.MethodPut, "/api/v1/resources/1/maintenance", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, gotOK)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetUserID(req.Context())

	assert.False(t, ok)
}

func TestWithUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, ok := GetUserID(WithUserID(req.Context(), 3))

	assert.True(t, ok)
	assert.Equal(t, int64(3), id)
}
