package check_conflicts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
)

type fakeService struct {
	gotID  int64
	report *domain.ConflictReport
	err    error
}

func (f *fakeService) CheckConflicts(_ context.Context, id int64, window domain.TimeWindow) (*domain.ConflictReport, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	f.report.ResourceID = id
	f.report.Window = window
	return f.report, nil
}

func get(h *Handler, resourceID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/resources/"+resourceID+"/conflicts?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"resourceId": resourceID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	t.Run("свободное окно", func(t *testing.T) {
		svc := &fakeService{report: &domain.ConflictReport{}}
		h := NewHandler(svc, testutil.IST, testutil.NopLogger())

		rec := get(h, "1", "start=2025-06-12&end=2025-06-14")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(1), svc.gotID)
		var body ConflictsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Free)
		assert.Empty(t, body.Conflicts)
	})

	t.Run("пересечения - 200 со списком", func(t *testing.T) {
		reason := "покраска"
		svc := &fakeService{report: &domain.ConflictReport{Conflicts: []domain.Conflict{
			{AllocationID: 4, Kind: domain.KindBooking, Window: testutil.Window(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 12))},
			{AllocationID: 5, Kind: domain.KindMaintenance, Window: testutil.Window(testutil.Date(2025, 6, 12), testutil.Date(2025, 6, 13)), Reason: &reason},
		}}}
		h := NewHandler(svc, testutil.IST, testutil.NopLogger())

		rec := get(h, "1", "start=2025-06-11&end=2025-06-13")

		require.Equal(t, http.StatusOK, rec.Code)
		var body ConflictsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Free)
		assert.Equal(t, int64(1), body.ResourceID)
		require.Len(t, body.Conflicts, 2)
		assert.Equal(t, "maintenance", body.Conflicts[1].Kind)
		require.NotNil(t, body.Conflicts[1].Reason)
		assert.Equal(t, reason, *body.Conflicts[1].Reason)
	})

	t.Run("некорректный запрос", func(t *testing.T) {
		tests := []struct {
			name       string
			resourceID string
			query      string
		}{
			{"ID ресурса", "x", "start=2025-06-11&end=2025-06-13"},
			{"нет окна", "1", ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeService{}
				h := NewHandler(svc, testutil.IST, testutil.NopLogger())

				rec := get(h, tt.resourceID, tt.query)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Zero(t, svc.gotID)
			})
		}
	})

	t.Run("неизвестный ресурс", func(t *testing.T) {
		h := NewHandler(&fakeService{err: fmt.Errorf("resource 404: %w", domain.ErrNotFound)}, testutil.IST, testutil.NopLogger())

		rec := get(h, "404", "start=2025-06-11&end=2025-06-13")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
