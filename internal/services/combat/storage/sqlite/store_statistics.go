package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

// GetCombatStatistics returns aggregate counts.
// When since is nil, counts are for all time.
func (s *Store) GetCombatStatistics(ctx context.Context, since *time.Time) (storage.CombatStatistics, error) {
	if err := ctx.Err(); err != nil {
		return storage.CombatStatistics{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CombatStatistics{}, fmt.Errorf("storage is not configured")
	}

	sinceValue := toNullMillis(since)

	var stats storage.CombatStatistics
	if err := s.sqlDB.QueryRowContext(ctx, `
SELECT
	COUNT(1),
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
	COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0)
FROM encounters
WHERE (? IS NULL OR created_at >= ?)
`,
		string(domain.EncounterStatusCompleted),
		string(domain.WinnerPlayers),
		string(domain.WinnerEnemies),
		string(domain.WinnerDraw),
		sinceValue,
		sinceValue,
	).Scan(
		&stats.EncounterCount,
		&stats.CompletedCount,
		&stats.PlayerWins,
		&stats.EnemyWins,
		&stats.Draws,
	); err != nil {
		return storage.CombatStatistics{}, fmt.Errorf("get encounter statistics: %w", err)
	}

	if err := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM encounter_actions
WHERE (? IS NULL OR created_at >= ?)
`, sinceValue, sinceValue).Scan(&stats.ActionCount); err != nil {
		return storage.CombatStatistics{}, fmt.Errorf("get action statistics: %w", err)
	}

	return stats, nil
}
