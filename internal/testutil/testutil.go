// Package testutil общие помощники тестов
package testutil

import (
	"io"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/logger"
)

// IST часовой пояс движка в тестах (без зависимости от tzdata)
var IST = time.FixedZone("IST", 5*3600+30*60)

// NopLogger логгер, который ничего не пишет
func NopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "debug")
}

// Date полночь даты в IST
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, IST)
}

// At момент времени в IST
func At(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, IST)
}

// Window окно без слота
func Window(start, end time.Time) domain.TimeWindow {
	return domain.TimeWindow{Start: start, End: end}
}

// SlotWindow окно со слотом
func SlotWindow(start, end time.Time, slot domain.Slot) domain.TimeWindow {
	return domain.TimeWindow{Start: start, End: end, Slot: &slot}
}
