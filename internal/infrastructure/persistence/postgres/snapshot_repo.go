package postgres

import (
	"context"
	"fmt"

	"github.com/zv-rewards/zv-rewards-hub/internal/domain/employee"
	"github.com/zv-rewards/zv-rewards-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT REPOSITORY IMPLEMENTATION
// Key-value хранилище JSONB документов. Документ - тот же формат, что и
// экспорт/импорт: один кодек на все пути сериализации.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotRepository implements employee.SnapshotRepository for PostgreSQL.
type SnapshotRepository struct {
	conn *Connection
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(conn *Connection) *SnapshotRepository {
	return &SnapshotRepository{conn: conn}
}

// Load loads an employee state by ID.
func (r *SnapshotRepository) Load(ctx context.Context, id string) (*employee.State, error) {
	query := `
		SELECT document
		FROM employee_snapshots
		WHERE employee_id = $1
	`

	var doc []byte
	if err := r.conn.QueryRow(ctx, query, id).Scan(&doc); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	state, err := employee.UnmarshalSnapshot(id, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", id, err)
	}
	return state, nil
}

// Save upserts the employee state.
func (r *SnapshotRepository) Save(ctx context.Context, id string, state *employee.State) error {
	doc, err := employee.MarshalSnapshot(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot for %s: %w", id, err)
	}

	query := `
		INSERT INTO employee_snapshots (employee_id, document, points, level, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (employee_id) DO UPDATE SET
			document = EXCLUDED.document,
			points = EXCLUDED.points,
			level = EXCLUDED.level,
			updated_at = NOW()
	`

	if _, err := r.conn.Exec(ctx, query, id, doc, int(state.Points), int(state.Level)); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadAll loads all persisted employee states.
func (r *SnapshotRepository) LoadAll(ctx context.Context) (map[string]*employee.State, error) {
	query := `
		SELECT employee_id, document
		FROM employee_snapshots
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	states := make(map[string]*employee.State)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		state, err := employee.UnmarshalSnapshot(id, doc)
		if err != nil {
			// Повреждённая запись не должна валить весь WarmUp.
			continue
		}
		states[id] = state
	}
	return states, rows.Err()
}

// Scores returns (employee_id, points) pairs without document parsing.
// Used for leaderboard cache rebuilds.
func (r *SnapshotRepository) Scores(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT employee_id, points
		FROM employee_snapshots
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var id string
		var points int
		if err := rows.Scan(&id, &points); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores[id] = points
	}
	return scores, rows.Err()
}
