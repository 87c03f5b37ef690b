package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var almaty = time.FixedZone("Asia/Almaty", 5*60*60)

func TestClassifyCheckIn_FirstEver(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, almaty)
	assert.Equal(t, StreakReset, ClassifyCheckIn(nil, now, almaty))
}

func TestClassifyCheckIn_SameDay(t *testing.T) {
	last := time.Date(2026, 3, 10, 0, 5, 0, 0, almaty)
	now := time.Date(2026, 3, 10, 23, 55, 0, 0, almaty)
	assert.Equal(t, StreakSameDay, ClassifyCheckIn(&last, now, almaty))
}

func TestClassifyCheckIn_NextDay(t *testing.T) {
	last := time.Date(2026, 3, 10, 23, 59, 0, 0, almaty)
	now := time.Date(2026, 3, 11, 0, 1, 0, 0, almaty)
	assert.Equal(t, StreakContinued, ClassifyCheckIn(&last, now, almaty))
}

func TestClassifyCheckIn_Gap(t *testing.T) {
	last := time.Date(2026, 3, 10, 12, 0, 0, 0, almaty)
	now := time.Date(2026, 3, 12, 12, 0, 0, 0, almaty)
	assert.Equal(t, StreakReset, ClassifyCheckIn(&last, now, almaty))
}

// A check-in late at night UTC and one the next morning are the same calendar
// day in UTC but different days in Almaty. Day comparison must follow the
// configured location.
func TestClassifyCheckIn_TimezoneBoundary(t *testing.T) {
	last := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC) // 23:30 Almaty, Mar 10
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)   // 01:00 Almaty, Mar 11

	assert.Equal(t, StreakContinued, ClassifyCheckIn(&last, now, almaty))
	assert.Equal(t, StreakSameDay, ClassifyCheckIn(&last, now, time.UTC))
}

func TestNextStreak(t *testing.T) {
	assert.Equal(t, 4, NextStreak(3, StreakContinued))
	assert.Equal(t, 1, NextStreak(9, StreakReset))
	assert.Equal(t, 7, NextStreak(7, StreakSameDay))
	assert.Equal(t, 1, NextStreak(0, StreakReset))
}

func TestCheckInPoints(t *testing.T) {
	assert.Equal(t, 10, CheckInPoints(1))
	assert.Equal(t, 10, CheckInPoints(4))
	assert.Equal(t, 30, CheckInPoints(5))
	assert.Equal(t, 10, CheckInPoints(6))
	assert.Equal(t, 60, CheckInPoints(10))
	assert.Equal(t, 10, CheckInPoints(11))
}
