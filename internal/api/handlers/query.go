package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// WindowFromQuery собирает окно из query параметров start, end и slot
func WindowFromQuery(r *http.Request, loc *time.Location) (domain.TimeWindow, error) {
	q := r.URL.Query()

	req := WindowRequest{
		Start: q.Get("start"),
		End:   q.Get("end"),
	}
	if slot := q.Get("slot"); slot != "" {
		req.Slot = &slot
	}

	if err := Validate(req); err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: %w", domain.ErrInvalidWindow, err)
	}
	return req.ToDomain(loc)
}

// PathID разбирает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, name, raw)
	}
	return id, nil
}
