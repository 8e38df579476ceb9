package reserve_resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/api/middleware"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/reserve_resources"
)

type fakeUseCase struct {
	got *reserve_resources.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *reserve_resources.Request) (*reserve_resources.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	resp := &reserve_resources.Response{ResourceIDs: req.ResourceIDs, Superseded: 1}
	for i, id := range req.ResourceIDs {
		actor := req.ActorID
		resp.Reservations = append(resp.Reservations, &domain.Allocation{
			ID:         int64(100 + i),
			ResourceID: id,
			Kind:       domain.KindReservation,
			Window:     req.Window,
			ActorID:    &actor,
		})
	}
	return resp, nil
}

func reserve(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reservations", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const reserveBody = `{"resourceIds":[1,2],"window":{"start":"2025-06-10","end":"2025-06-12"}}`

func TestHandle(t *testing.T) {
	t.Run("резервирует пакет", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := reserve(h, reserveBody, 9)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, uc.got)
		assert.Equal(t, int64(9), uc.got.ActorID)
		assert.Equal(t, []int64{1, 2}, uc.got.ResourceIDs)

		var body ReserveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Len(t, body.Reservations, 2)
		assert.Equal(t, int64(1), body.Superseded)
	})

	t.Run("без пользователя", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := reserve(h, reserveBody, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("пустой список ресурсов", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := reserve(h, `{"resourceIds":[],"window":{"start":"2025-06-10","end":"2025-06-12"}}`, 9)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("пересечение с бронированием", func(t *testing.T) {
		window := testutil.Window(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 12))
		uc := &fakeUseCase{err: domain.NewConflictError(domain.ConflictReport{
			ResourceID: 2,
			Window:     window,
			Conflicts: []domain.Conflict{{
				AllocationID: 8,
				Kind:         domain.KindBooking,
				Window:       testutil.Window(testutil.Date(2025, 6, 11), testutil.Date(2025, 6, 13)),
			}},
		})}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := reserve(h, reserveBody, 9)

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"kind":"booking"`)
	})

	t.Run("неактивный ресурс", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: domain.ErrResourceInactive}, testutil.IST, testutil.NopLogger())

		rec := reserve(h, reserveBody, 9)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
