package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 5, 10, 18, 45, 12, 0, time.UTC)

	got := StartOfDay(ts, time.UTC)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), got)

	// 18:45 UTC = 23:45 в Алматы, тот же календарный день.
	gotDefault := StartOfDay(ts, nil)
	assert.Equal(t, 10, gotDefault.Day())

	// 19:30 UTC = 00:30 следующего дня в Алматы.
	late := time.Date(2026, 5, 10, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, 11, StartOfDay(late, nil).Day())
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening, time.UTC))
	assert.False(t, SameDay(morning, nextDay, time.UTC))

	// Граница таймзоны: 18:30 UTC и 20:00 UTC - один день по UTC,
	// но разные календарные дни в Алматы (UTC+5).
	a := time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	b := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(a, b, nil))
}

func TestIsNextDay(t *testing.T) {
	day := time.Date(2026, 5, 31, 23, 59, 0, 0, time.UTC)
	next := time.Date(2026, 6, 1, 0, 1, 0, 0, time.UTC)

	// Границы месяца обрабатываются корректно.
	assert.True(t, IsNextDay(day, next, time.UTC))
	assert.False(t, IsNextDay(next, day, time.UTC))
	assert.False(t, IsNextDay(day, day, time.UTC))

	// Граница года.
	dec := time.Date(2026, 12, 31, 12, 0, 0, 0, time.UTC)
	jan := time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, IsNextDay(dec, jan, time.UTC))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 5, 13, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b, time.UTC))
	assert.Equal(t, -3, DaysBetween(b, a, time.UTC))
	assert.Equal(t, 0, DaysBetween(a, a, time.UTC))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, 5, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-05-10", FormatDate(ts, time.UTC))
	// В Алматы уже 11-е.
	assert.Equal(t, "2026-05-11", FormatDate(ts, nil))
}
