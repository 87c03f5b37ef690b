package employee

import "errors"

// ══════════════════════════════════════════════════════════════════════════════
// REWARD CATALOG
// Каталог наград, которые можно выкупить за баллы. Каталог принадлежит
// конфигурации/сидам, движок только списывает стоимость.
// ══════════════════════════════════════════════════════════════════════════════

// Reward представляет одну награду каталога.
type Reward struct {
	// ID - уникальный идентификатор награды.
	ID string

	// Name - название.
	Name string

	// Cost - стоимость в баллах (>= 1).
	Cost int

	// Category - категория каталога (например, "time_off", "merch").
	Category string
}

// Reward validation errors.
var (
	ErrInvalidRewardID   = errors.New("reward id is required")
	ErrInvalidRewardCost = errors.New("reward cost must be positive")
)

// Validate проверяет корректность награды.
func (r Reward) Validate() error {
	if r.ID == "" {
		return ErrInvalidRewardID
	}
	if r.Cost <= 0 {
		return ErrInvalidRewardCost
	}
	return nil
}

// CanAfford проверяет, хватает ли баллов на награду.
func (r Reward) CanAfford(points Points) bool {
	return int(points) >= r.Cost
}

// DefaultCatalog возвращает стандартный каталог наград.
func DefaultCatalog() []Reward {
	return []Reward{
		{ID: "day-off", Name: "Дополнительный выходной", Cost: 500, Category: "time_off"},
		{ID: "lunch", Name: "Обед с командой", Cost: 250, Category: "team"},
		{ID: "merch-hoodie", Name: "Худи ZV", Cost: 300, Category: "merch"},
		{ID: "coffee", Name: "Карта на кофе", Cost: 100, Category: "perks"},
		{ID: "course", Name: "Онлайн-курс на выбор", Cost: 400, Category: "growth"},
	}
}

// FindReward ищет награду в каталоге по ID.
func FindReward(catalog []Reward, id string) (Reward, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reward{}, false
}
