package leaderboard

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE INTERFACE
// Горячее чтение лидерборда. Реализация - в infrastructure/persistence/redis
// (sorted set по баллам). Кеш - ускоритель, не источник истины: при промахе
// рейтинг перестраивается из EmployeeStore.
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования лидерборда.
type Cache interface {
	// UpdateScore обновляет баллы сотрудника в кеше.
	UpdateScore(ctx context.Context, employeeID string, points int) error

	// Remove удаляет сотрудника из кеша.
	Remove(ctx context.Context, employeeID string) error

	// Top возвращает ID сотрудников топ-N по убыванию баллов.
	Top(ctx context.Context, n int) ([]ScoredID, error)

	// Rank возвращает позицию сотрудника (1 = первое место).
	// Возвращает 0, если сотрудника нет в кеше.
	Rank(ctx context.Context, employeeID string) (int, error)

	// Rebuild целиком заменяет содержимое кеша.
	Rebuild(ctx context.Context, scores map[string]int) error
}

// ScoredID - пара (ID сотрудника, баллы) из кеша.
type ScoredID struct {
	EmployeeID string
	Points     int
}
