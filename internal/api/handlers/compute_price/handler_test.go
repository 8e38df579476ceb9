package compute_price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/pricing"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
)

type fakeService struct {
	called bool
	gotTyp domain.ResourceType
	gotTr  domain.PricingTier
	gotWin domain.TimeWindow
	quote  *pricing.Quote
	err    error
}

func (f *fakeService) ComputePrice(_ context.Context, resourceType domain.ResourceType, tier domain.PricingTier, window domain.TimeWindow) (*pricing.Quote, error) {
	f.called = true
	f.gotTyp, f.gotTr, f.gotWin = resourceType, tier, window
	return f.quote, f.err
}

func get(h *Handler, query string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricing/quote?"+query, nil))
	return rec
}

func TestHandle(t *testing.T) {
	t.Run("считает стоимость", func(t *testing.T) {
		svc := &fakeService{quote: &pricing.Quote{RateCardID: 1, Tier: domain.TierMember, Units: 3, UnitRate: 3000, Total: 9000}}
		h := NewHandler(svc, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=room&tier=member&start=2025-06-10&end=2025-06-13")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.ResourceRoom, svc.gotTyp)
		assert.Equal(t, domain.TierMember, svc.gotTr)
		assert.True(t, svc.gotWin.End.Equal(testutil.Date(2025, 6, 13)))

		var body QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, QuoteResponse{
			ResourceType: "room",
			Tier:         "member",
			Window:       body.Window,
			RateCardID:   1,
			Units:        3,
			UnitRate:     3000,
			Total:        9000,
		}, body)
	})

	t.Run("слот передаётся сервису", func(t *testing.T) {
		svc := &fakeService{quote: &pricing.Quote{Tier: domain.TierGuest, Units: 1, UnitRate: 7000, Total: 7000}}
		h := NewHandler(svc, testutil.IST, testutil.NopLogger())

		rec := get(h, "type=hall&tier=guest&start=2025-07-03&end=2025-07-04&slot=EVENING")

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.gotWin.Slot)
		assert.Equal(t, domain.SlotEvening, *svc.gotWin.Slot)
	})

	t.Run("отклоняется до сервиса", func(t *testing.T) {
		tests := []struct {
			name  string
			query string
		}{
			{"нет типа", "tier=member&start=2025-06-10&end=2025-06-13"},
			{"нет тарифа", "type=room&start=2025-06-10&end=2025-06-13"},
			{"нет окна", "type=room&tier=member"},
			{"дата не разбирается", "type=room&tier=member&start=June&end=2025-06-13"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &fakeService{}
				h := NewHandler(svc, testutil.IST, testutil.NopLogger())

				rec := get(h, tt.query)

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.False(t, svc.called)
			})
		}
	})

	t.Run("ошибки сервиса", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"неизвестный тариф", fmt.Errorf("%w: vip", domain.ErrUnknownRateTier), http.StatusBadRequest},
			{"ноль ночей", domain.ErrNonPositiveDuration, http.StatusBadRequest},
			{"неизвестный тип", domain.ErrUnknownResourceType, http.StatusBadRequest},
			{"нет карты по умолчанию", fmt.Errorf("%w: default rate card for lawn", domain.ErrNotFound), http.StatusNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := NewHandler(&fakeService{err: tt.err}, testutil.IST, testutil.NopLogger())

				rec := get(h, "type=room&tier=member&start=2025-06-10&end=2025-06-13")

				assert.Equal(t, tt.status, rec.Code)
			})
		}
	})
}
