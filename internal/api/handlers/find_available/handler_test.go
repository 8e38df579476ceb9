package find_available

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
	"github.com/m04kA/SMC-ResourceAllocation/internal/usecase/find_available"
)

type fakeUseCase struct {
	got  *find_available.Request
	resp *find_available.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *find_available.Request) (*find_available.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &find_available.Response{
		ResourceType: req.ResourceType,
		Window:       req.Window,
		Resources:    f.resp.Resources,
	}, nil
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/resources/available?"+query, nil))
	return rec
}

func TestHandle(t *testing.T) {
	t.Run("свободные экземпляры", func(t *testing.T) {
		uc := &fakeUseCase{resp: &find_available.Response{Resources: []*domain.ResourceInstance{
			{ID: 4, Type: domain.ResourceRoom, Name: "Room 104", IsActive: true},
			{ID: 5, Type: domain.ResourceRoom, Name: "Room 105", IsActive: true},
		}}}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=room&start=2025-01-10&end=2025-01-12")

		require.Equal(t, http.StatusOK, rec.Code)
		var body AvailableResourcesResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "room", body.ResourceType)
		require.Len(t, body.Resources, 2)
		assert.Equal(t, int64(4), body.Resources[0].ID)
		assert.Equal(t, domain.ResourceRoom, uc.got.ResourceType)
		assert.True(t, uc.got.Window.Start.Equal(testutil.Date(2025, 1, 10)))
	})

	t.Run("пустой результат - пустой массив", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{resp: &find_available.Response{}}, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=hall&start=2025-07-03&end=2025-07-04&slot=EVENING")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"resources":[]`)
	})

	t.Run("нет типа", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := get(h, "start=2025-01-10&end=2025-01-12")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("окно не разбирается", func(t *testing.T) {
		uc := &fakeUseCase{}
		h := NewHandler(uc, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=room&start=2025-01-10")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.got)
	})

	t.Run("неизвестный тип от use case", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: domain.ErrUnknownResourceType}, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=yacht&start=2025-01-10&end=2025-01-12")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
