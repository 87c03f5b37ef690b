package employee

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Store - единоличный владелец состояний сотрудников.
// Все мутации для одного ID сериализуются (single-writer-per-key);
// операции для разных ID могут идти параллельно.
type Store interface {
	// Get возвращает копию состояния сотрудника.
	// Возвращает shared.ErrEmployeeNotFound, если сотрудник не найден.
	Get(ctx context.Context, id string) (*State, error)

	// Replace атомарно заменяет состояние сотрудника новым значением
	// и запускает отложенную запись в персистентный порт.
	Replace(ctx context.Context, id string, state *State) error

	// Update выполняет read-modify-write под замком этого ID: мутатор
	// получает копию состояния, возвращённое значение коммитится.
	// Ошибка мутатора отменяет коммит и возвращается вызывающему.
	Update(ctx context.Context, id string, mutate Mutator) (*State, error)

	// ResetToSeed заменяет состояние сидовым снапшотом для этого ID.
	ResetToSeed(ctx context.Context, id string) (*State, error)

	// ImportSnapshot валидирует документ и целиком заменяет состояние.
	// Документ обязан содержать как минимум profile и kpis, иначе
	// shared.ErrInvalidImportFormat и состояние не меняется.
	ImportSnapshot(ctx context.Context, id string, doc []byte) (*State, error)

	// ExportSnapshot сериализует текущее состояние в документ.
	ExportSnapshot(ctx context.Context, id string) ([]byte, error)

	// IDs возвращает все известные идентификаторы сотрудников.
	IDs(ctx context.Context) ([]string, error)

	// All возвращает копии всех состояний (для лидерборда).
	All(ctx context.Context) ([]*State, error)
}

// SnapshotRepository - персистентный порт (key-value).
// Запись после коммита - best-effort: сбой логируется и НЕ откатывает
// состояние в памяти; транзакционных гарантий между памятью и портом нет.
type SnapshotRepository interface {
	// Load загружает состояние сотрудника.
	// Возвращает shared.ErrEmployeeNotFound, если записи нет.
	Load(ctx context.Context, id string) (*State, error)

	// Save сохраняет состояние сотрудника.
	Save(ctx context.Context, id string, state *State) error

	// LoadAll загружает все сохранённые состояния.
	LoadAll(ctx context.Context) (map[string]*State, error)
}

// Mutator применяет одну мутацию к копии состояния.
// Возвращённое состояние коммитится, nil означает отказ без мутации.
type Mutator func(state *State) (*State, error)
