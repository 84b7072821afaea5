package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

// CreateEncounter inserts a new encounter with its combatant roster.
func (s *Store) CreateEncounter(ctx context.Context, rec storage.EncounterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeEncounterRecord(rec)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin encounter create: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback encounter create: %v", cause, rollbackErr)
		}
		return cause
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO encounters (
		id, adventure_id, status, round, turn_index, winner, version, started_at, ended_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		normalized.ID,
		normalized.AdventureID,
		string(normalized.Status),
		normalized.Round,
		normalized.TurnIndex,
		string(normalized.Winner),
		normalized.Version,
		toNullMillis(normalized.StartedAt),
		toNullMillis(normalized.EndedAt),
		toMillis(normalized.CreatedAt),
		toMillis(normalized.UpdatedAt),
	)
	if err != nil {
		return rollbackWith(fmt.Errorf("insert encounter: %w", err))
	}

	for _, combatant := range normalized.Combatants {
		if err := putCombatantExec(ctx, tx, combatant); err != nil {
			return rollbackWith(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit encounter create: %w", err)
	}
	return nil
}

// GetEncounter retrieves an encounter and its roster by id.
func (s *Store) GetEncounter(ctx context.Context, id string) (storage.EncounterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EncounterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EncounterRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.EncounterRecord{}, fmt.Errorf("encounter id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, adventure_id, status, round, turn_index, winner, version, started_at, ended_at, created_at, updated_at
FROM encounters
WHERE id = ?
`, id)
	rec, err := scanEncounter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EncounterRecord{}, storage.ErrNotFound
		}
		return storage.EncounterRecord{}, fmt.Errorf("get encounter: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT encounter_id, id, source_id, position, name, type, current_health, max_health, armor_class, attack_modifier,
       weapon_name, weapon_dice_count, weapon_dice_sides, weapon_modifier, status, ai,
       initiative_roll, initiative_score, tiebreaker, last_attacker_id
FROM encounter_combatants
WHERE encounter_id = ?
ORDER BY position ASC
`, id)
	if err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("list encounter combatants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		combatant, scanErr := scanCombatant(rows.Scan)
		if scanErr != nil {
			return storage.EncounterRecord{}, fmt.Errorf("scan combatant row: %w", scanErr)
		}
		rec.Combatants = append(rec.Combatants, combatant)
	}
	if err := rows.Err(); err != nil {
		return storage.EncounterRecord{}, fmt.Errorf("iterate combatant rows: %w", err)
	}
	return rec, nil
}

// SaveEncounter persists an updated encounter guarded by its expected version.
// Combatant rows and new journal actions land in the same transaction, so a
// version conflict leaves nothing behind.
func (s *Store) SaveEncounter(ctx context.Context, rec storage.EncounterRecord, expectedVersion uint64, actions []storage.ActionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	normalized, err := normalizeEncounterRecord(rec)
	if err != nil {
		return err
	}
	if expectedVersion == 0 {
		return fmt.Errorf("expected version is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin encounter save: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback encounter save: %v", cause, rollbackErr)
		}
		return cause
	}

	result, err := tx.ExecContext(ctx, `
UPDATE encounters
SET status = ?, round = ?, turn_index = ?, winner = ?, version = ?, started_at = ?, ended_at = ?, updated_at = ?
WHERE id = ? AND version = ?
`,
		string(normalized.Status),
		normalized.Round,
		normalized.TurnIndex,
		string(normalized.Winner),
		normalized.Version,
		toNullMillis(normalized.StartedAt),
		toNullMillis(normalized.EndedAt),
		toMillis(normalized.UpdatedAt),
		normalized.ID,
		expectedVersion,
	)
	if err != nil {
		return rollbackWith(fmt.Errorf("update encounter: %w", err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return rollbackWith(fmt.Errorf("update encounter rows affected: %w", err))
	}
	if affected == 0 {
		var exists int
		scanErr := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM encounters WHERE id = ?`, normalized.ID).Scan(&exists)
		if scanErr != nil {
			return rollbackWith(fmt.Errorf("check encounter existence: %w", scanErr))
		}
		if exists == 0 {
			return rollbackWith(storage.ErrNotFound)
		}
		return rollbackWith(storage.ErrVersionConflict)
	}

	for _, combatant := range normalized.Combatants {
		if err := putCombatantExec(ctx, tx, combatant); err != nil {
			return rollbackWith(err)
		}
	}

	if len(actions) > 0 {
		if err := appendActionsExec(ctx, tx, normalized.ID, actions); err != nil {
			return rollbackWith(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit encounter save: %w", err)
	}
	return nil
}

func putCombatantExec(ctx context.Context, execer sqlQuerier, rec storage.CombatantRecord) error {
	_, err := execer.ExecContext(ctx, `
	INSERT INTO encounter_combatants (
		encounter_id, id, source_id, position, name, type, current_health, max_health, armor_class, attack_modifier,
		weapon_name, weapon_dice_count, weapon_dice_sides, weapon_modifier, status, ai,
		initiative_roll, initiative_score, tiebreaker, last_attacker_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(encounter_id, id) DO UPDATE SET
		current_health = excluded.current_health,
		status = excluded.status,
		ai = excluded.ai,
		last_attacker_id = excluded.last_attacker_id
	`,
		rec.EncounterID,
		rec.ID,
		rec.SourceID,
		rec.Position,
		rec.Name,
		string(rec.Type),
		rec.CurrentHealth,
		rec.MaxHealth,
		rec.ArmorClass,
		rec.AttackModifier,
		rec.WeaponName,
		rec.WeaponDiceCount,
		rec.WeaponDiceSides,
		rec.WeaponModifier,
		string(rec.Status),
		string(rec.AI),
		rec.InitiativeRoll,
		rec.InitiativeScore,
		rec.Tiebreaker,
		rec.LastAttackerID,
	)
	if err != nil {
		return fmt.Errorf("put combatant %s: %w", rec.ID, err)
	}
	return nil
}

func appendActionsExec(ctx context.Context, execer sqlQuerier, encounterID string, actions []storage.ActionRecord) error {
	var lastSeq uint64
	if err := execer.QueryRowContext(ctx, `
SELECT COALESCE(MAX(seq), 0) FROM encounter_actions WHERE encounter_id = ?
`, encounterID).Scan(&lastSeq); err != nil {
		return fmt.Errorf("read last action seq: %w", err)
	}

	for i, action := range actions {
		rollsJSON := []byte("[]")
		if len(action.DamageRolls) > 0 {
			encoded, err := json.Marshal(action.DamageRolls)
			if err != nil {
				return fmt.Errorf("marshal damage rolls: %w", err)
			}
			rollsJSON = encoded
		}
		seq := lastSeq + uint64(i) + 1
		if _, err := execer.ExecContext(ctx, `
	INSERT INTO encounter_actions (
		encounter_id, seq, id, attacker_id, target_id, attack_roll, attack_modifier, attack_total,
		target_armor_class, hit, critical, weapon_name, damage_notation, damage_rolls_json,
		damage_modifier, damage, target_health_after, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
			encounterID,
			seq,
			action.ID,
			action.AttackerID,
			action.TargetID,
			action.AttackRoll,
			action.AttackModifier,
			action.AttackTotal,
			action.TargetArmorClass,
			boolToInt(action.Hit),
			boolToInt(action.Critical),
			action.WeaponName,
			action.DamageNotation,
			string(rollsJSON),
			action.DamageModifier,
			action.Damage,
			action.TargetHealthAfter,
			toMillis(action.CreatedAt),
		); err != nil {
			return fmt.Errorf("append action %s: %w", action.ID, err)
		}
	}
	return nil
}

func normalizeEncounterRecord(rec storage.EncounterRecord) (storage.EncounterRecord, error) {
	rec.ID = strings.TrimSpace(rec.ID)
	rec.AdventureID = strings.TrimSpace(rec.AdventureID)
	if rec.ID == "" {
		return storage.EncounterRecord{}, fmt.Errorf("encounter id is required")
	}
	if rec.AdventureID == "" {
		return storage.EncounterRecord{}, fmt.Errorf("adventure id is required")
	}
	if rec.Status == "" {
		return storage.EncounterRecord{}, fmt.Errorf("encounter status is required")
	}
	if rec.Version == 0 {
		return storage.EncounterRecord{}, fmt.Errorf("encounter version is required")
	}
	if rec.CreatedAt.IsZero() {
		return storage.EncounterRecord{}, fmt.Errorf("created_at is required")
	}
	if rec.UpdatedAt.IsZero() {
		return storage.EncounterRecord{}, fmt.Errorf("updated_at is required")
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	for i, combatant := range rec.Combatants {
		combatant.EncounterID = rec.ID
		combatant.ID = strings.TrimSpace(combatant.ID)
		if combatant.ID == "" {
			return storage.EncounterRecord{}, fmt.Errorf("combatant id is required")
		}
		rec.Combatants[i] = combatant
	}
	return rec, nil
}

func scanEncounter(scan scanner) (storage.EncounterRecord, error) {
	var rec storage.EncounterRecord
	var status string
	var winner string
	var startedAt sql.NullInt64
	var endedAt sql.NullInt64
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&rec.ID,
		&rec.AdventureID,
		&status,
		&rec.Round,
		&rec.TurnIndex,
		&winner,
		&rec.Version,
		&startedAt,
		&endedAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EncounterRecord{}, err
	}
	rec.Status = encounterStatusFromString(status)
	rec.Winner = winnerFromString(winner)
	rec.StartedAt = fromNullMillis(startedAt)
	rec.EndedAt = fromNullMillis(endedAt)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func scanCombatant(scan scanner) (storage.CombatantRecord, error) {
	var rec storage.CombatantRecord
	var kind string
	var status string
	var ai string
	if err := scan(
		&rec.EncounterID,
		&rec.ID,
		&rec.SourceID,
		&rec.Position,
		&rec.Name,
		&kind,
		&rec.CurrentHealth,
		&rec.MaxHealth,
		&rec.ArmorClass,
		&rec.AttackModifier,
		&rec.WeaponName,
		&rec.WeaponDiceCount,
		&rec.WeaponDiceSides,
		&rec.WeaponModifier,
		&status,
		&ai,
		&rec.InitiativeRoll,
		&rec.InitiativeScore,
		&rec.Tiebreaker,
		&rec.LastAttackerID,
	); err != nil {
		return storage.CombatantRecord{}, err
	}
	rec.Type = combatantTypeFromString(kind)
	rec.Status = combatantStatusFromString(status)
	rec.AI = aiStateFromString(ai)
	return rec, nil
}
