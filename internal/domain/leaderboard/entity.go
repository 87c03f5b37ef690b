// Package leaderboard содержит доменную модель лидерборда ZV Rewards Hub.
// Лидерборд - производное представление: он строится из состояний сотрудников
// и никогда не является источником истины.
package leaderboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank представляет позицию сотрудника в лидерборде.
// Rank начинается с 1 (первое место).
type Rank int

// IsValid проверяет, что ранг положительный.
func (r Rank) IsValid() bool {
	return r > 0
}

// IsTopThree возвращает true для призовых мест.
// Само оформление "медалей" - ответственность презентационного слоя.
func (r Rank) IsTopThree() bool {
	return r >= 1 && r <= 3
}

// String возвращает строковое представление ранга.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// RankChange представляет изменение позиции в рейтинге.
// Положительное значение = подъём, отрицательное = падение.
type RankChange int

// Direction возвращает направление изменения.
func (rc RankChange) Direction() RankDirection {
	switch {
	case rc > 0:
		return RankDirectionUp
	case rc < 0:
		return RankDirectionDown
	default:
		return RankDirectionStable
	}
}

// Abs возвращает абсолютное значение изменения.
func (rc RankChange) Abs() int {
	if rc < 0 {
		return int(-rc)
	}
	return int(rc)
}

// String возвращает строковое представление изменения.
func (rc RankChange) String() string {
	switch {
	case rc > 0:
		return fmt.Sprintf("+%d", int(rc))
	case rc < 0:
		return fmt.Sprintf("%d", int(rc))
	default:
		return "±0"
	}
}

// RankDirection определяет направление изменения ранга.
type RankDirection string

const (
	// RankDirectionUp - сотрудник поднялся в рейтинге.
	RankDirectionUp RankDirection = "up"
	// RankDirectionDown - сотрудник опустился в рейтинге.
	RankDirectionDown RankDirection = "down"
	// RankDirectionStable - позиция не изменилась.
	RankDirectionStable RankDirection = "stable"
	// RankDirectionNew - новый участник в рейтинге.
	RankDirectionNew RankDirection = "new"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD ENTRY
// ══════════════════════════════════════════════════════════════════════════════

// Entry представляет одну запись в лидерборде.
type Entry struct {
	// Rank - текущая позиция в рейтинге.
	Rank Rank

	// EmployeeID - внутренний идентификатор сотрудника.
	EmployeeID string

	// Name - отображаемое имя сотрудника.
	Name string

	// Role - должность.
	Role string

	// Points - текущий баланс баллов.
	Points employee.Points

	// Level - уровень (производный от баллов).
	Level employee.Level

	// Streak - текущая серия чек-инов.
	Streak int

	// BadgeCount - количество полученных бейджей.
	BadgeCount int

	// RankChange - изменение позиции с прошлого снапшота.
	RankChange RankChange

	// IsNew - сотрудник отсутствовал в прошлом снапшоте.
	IsNew bool

	// UpdatedAt - время последнего изменения состояния сотрудника.
	UpdatedAt time.Time
}

// Direction возвращает направление изменения ранга.
func (e *Entry) Direction() RankDirection {
	if e.IsNew {
		return RankDirectionNew
	}
	return e.RankChange.Direction()
}

// Clone создаёт копию записи.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}

// String возвращает строковое представление для логирования.
func (e *Entry) String() string {
	return fmt.Sprintf(
		"Entry{Rank: %d, Name: %s, Points: %d, Change: %s}",
		e.Rank, e.Name, e.Points, e.RankChange.String(),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING (Ranked List)
// ══════════════════════════════════════════════════════════════════════════════

// Ranking представляет полный отсортированный список сотрудников.
type Ranking struct {
	entries []*Entry
	byID    map[string]*Entry
}

// NewRanking строит рейтинг из состояний сотрудников.
// Сортировка: баллы по убыванию; при равенстве - имя по возрастанию,
// затем ID по возрастанию. Правило детерминированно: один и тот же
// набор состояний всегда даёт один и тот же порядок.
func NewRanking(states []*employee.State) *Ranking {
	entries := make([]*Entry, 0, len(states))
	for _, s := range states {
		if s == nil {
			continue
		}
		entries = append(entries, &Entry{
			EmployeeID: s.ID,
			Name:       s.Profile.Name,
			Role:       s.Profile.Role,
			Points:     s.Points,
			Level:      s.Level,
			Streak:     s.Streak,
			BadgeCount: len(s.Badges),
			UpdatedAt:  s.UpdatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})

	byID := make(map[string]*Entry, len(entries))
	for i, entry := range entries {
		entry.Rank = Rank(i + 1)
		byID[entry.EmployeeID] = entry
	}

	return &Ranking{entries: entries, byID: byID}
}

// Len возвращает количество записей.
func (r *Ranking) Len() int {
	return len(r.entries)
}

// All возвращает все записи по порядку рангов.
func (r *Ranking) All() []*Entry {
	result := make([]*Entry, len(r.entries))
	copy(result, r.entries)
	return result
}

// GetByID возвращает запись по ID сотрудника.
func (r *Ranking) GetByID(employeeID string) *Entry {
	return r.byID[employeeID]
}

// GetRank возвращает ранг сотрудника или 0, если он не найден.
func (r *Ranking) GetRank(employeeID string) Rank {
	entry := r.byID[employeeID]
	if entry == nil {
		return 0
	}
	return entry.Rank
}

// Top возвращает топ-N записей.
func (r *Ranking) Top(n int) []*Entry {
	if n <= 0 {
		return nil
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	result := make([]*Entry, n)
	copy(result, r.entries[:n])
	return result
}

// ApplyPrevious вычисляет RankChange относительно предыдущего рейтинга.
// Сотрудники, которых не было раньше, помечаются как новые.
func (r *Ranking) ApplyPrevious(previous *Ranking) {
	if previous == nil {
		for _, entry := range r.entries {
			entry.IsNew = true
		}
		return
	}

	for _, entry := range r.entries {
		prev := previous.GetByID(entry.EmployeeID)
		if prev == nil {
			entry.IsNew = true
			continue
		}
		// Положительное значение = поднялся
		entry.RankChange = RankChange(prev.Rank - entry.Rank)
	}
}
