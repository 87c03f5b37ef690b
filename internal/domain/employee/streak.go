package employee

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK (Серия ежедневных чек-инов)
// Сравнение идёт по локальным календарным дням, а не по прошедшему времени:
// чек-ин в 23:59 и следующий в 00:01 - это два соседних дня и серия растёт.
// ══════════════════════════════════════════════════════════════════════════════

// Check-in rewards.
const (
	// CheckInBasePoints - базовая награда за чек-ин.
	CheckInBasePoints = 10
	// CheckInBonusAt5 - бонус в день, когда серия впервые равна 5.
	CheckInBonusAt5 = 20
	// CheckInBonusAt10 - бонус в день, когда серия впервые равна 10.
	CheckInBonusAt10 = 50
	// ConsistencyBadgeStreak - порог серии для бейджа "Постоянство".
	ConsistencyBadgeStreak = 7
)

// StreakTransition описывает результат сравнения календарных дней.
type StreakTransition int

const (
	// StreakSameDay - чек-ин в тот же день; дубликат, без мутаций.
	StreakSameDay StreakTransition = iota
	// StreakContinued - чек-ин на следующий день; серия растёт.
	StreakContinued
	// StreakReset - первый чек-ин или пропуск от 2 дней; серия = 1.
	StreakReset
)

// startOfDay обрезает время до начала календарного дня в локации.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ClassifyCheckIn сравнивает последний чек-ин с текущим моментом.
// Чистая функция: lastCheckIn == nil означает, что чек-инов ещё не было.
func ClassifyCheckIn(lastCheckIn *time.Time, now time.Time, loc *time.Location) StreakTransition {
	if loc == nil {
		loc = time.Local
	}
	if lastCheckIn == nil {
		return StreakReset
	}

	lastDay := startOfDay(*lastCheckIn, loc)
	today := startOfDay(now, loc)

	switch {
	case lastDay.Equal(today):
		return StreakSameDay
	case lastDay.AddDate(0, 0, 1).Equal(today):
		return StreakContinued
	default:
		return StreakReset
	}
}

// NextStreak вычисляет новое значение серии для перехода.
// Для StreakSameDay серия не меняется.
func NextStreak(current int, transition StreakTransition) int {
	switch transition {
	case StreakContinued:
		return current + 1
	case StreakReset:
		return 1
	default:
		return current
	}
}

// CheckInPoints возвращает награду за чек-ин с новой серией.
// Бонусы срабатывают только в день, когда серия ВПЕРВЫЕ равна 5 или 10,
// а не на каждый день после - поведение зафиксировано осознанно.
func CheckInPoints(newStreak int) int {
	points := CheckInBasePoints
	switch newStreak {
	case 5:
		points += CheckInBonusAt5
	case 10:
		points += CheckInBonusAt10
	}
	return points
}
