package set_maintenance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/set_maintenance"
)

type fakeUseCase struct {
	got *set_maintenance.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *set_maintenance.Request) (*set_maintenance.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	periods := make([]*domain.Allocation, 0, len(req.Periods))
	for i, p := range req.Periods {
		reason := p.Reason
		actor := req.ActorID
		periods = append(periods, &domain.Allocation{
			ID:         int64(i + 1),
			ResourceID: req.ResourceID,
			Kind:       domain.KindMaintenance,
			Window:     p.Window,
			Reason:     &reason,
			ActorID:    &actor,
		})
	}
	return &set_maintenance.Response{ResourceID: req.ResourceID, Periods: periods, Replaced: 1}, nil
}

func put(h *Handler, resourceID, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/resources/"+resourceID+"/maintenance", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"resourceId": resourceID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const periodsBody = `{"periods":[{"window":{"start":"2025-07-01","end":"2025-07-05"},"reason":"ремонт кровли"}]}`

func TestHandle(t *testing.T) {
	t.Run("заменяет набор периодов", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := put(h, "10", periodsBody, 7)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, uc.got)
		assert.Equal(t, int64(10), uc.got.ResourceID)
		assert.Equal(t, int64(7), uc.got.ActorID)
		require.Len(t, uc.got.Periods, 1)
		assert.Equal(t, "ремонт кровли", uc.got.Periods[0].Reason)
		assert.True(t, uc.got.Periods[0].Window.End.Equal(testutil.Date(2025, 7, 5)))

		var body SetMaintenanceResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, int64(1), body.Replaced)
		require.Len(t, body.Periods, 1)
		assert.Equal(t, "maintenance", body.Periods[0].Kind)
	})

	t.Run("пустой список снимает обслуживание", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := put(h, "10", `{"periods":[]}`, 7)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, uc.got.Periods)
	})

	t.Run("без пользователя", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := put(h, "10", periodsBody, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("отклоняется до use case", func(t *testing.T) {
		tests := []struct {
			name       string
			resourceID string
			body       string
		}{
			{"ID ресурса", "abc", periodsBody},
			{"битый JSON", "10", `{"periods":[`},
			{"нет причины", "10", `{"periods":[{"window":{"start":"2025-07-01","end":"2025-07-05"}}]}`},
			{"дата", "10", `{"periods":[{"window":{"start":"01/07/2025","end":"2025-07-05"},"reason":"x"}]}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				uc := &fakeUseCase{}
				h := NewHandler(uc, testutil.IST, testutil.NopLogger())

				rec := put(h, tt.resourceID, tt.body, 7)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Nil(t, uc.got)
			})
		}
	})

	t.Run("пересечение с бронированием", func(t *testing.T) {
		window := testutil.Window(testutil.Date(2025, 7, 1), testutil.Date(2025, 7, 5))
		uc := &fakeUseCase{err: domain.NewConflictError(domain.ConflictReport{
			ResourceID: 10,
			Window:     window,
			Conflicts:  []domain.Conflict{{AllocationID: 3, Kind: domain.KindBooking, Window: window}},
		})}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := put(h, "10", periodsBody, 7)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"allocationId":3`)
	})
}
