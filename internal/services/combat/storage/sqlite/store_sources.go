package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

// PutCharacter upserts one character catalog row.
func (s *Store) PutCharacter(ctx context.Context, rec storage.CharacterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	rec.ID = strings.TrimSpace(rec.ID)
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.ID == "" {
		return fmt.Errorf("character id is required")
	}
	if rec.Name == "" {
		return fmt.Errorf("character name is required")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		return fmt.Errorf("character timestamps are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO characters (
		id, name, max_health, armor_class, attack_modifier, weapon_id, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		max_health = excluded.max_health,
		armor_class = excluded.armor_class,
		attack_modifier = excluded.attack_modifier,
		weapon_id = excluded.weapon_id,
		updated_at = excluded.updated_at
	`,
		rec.ID,
		rec.Name,
		rec.MaxHealth,
		rec.ArmorClass,
		rec.AttackModifier,
		strings.TrimSpace(rec.WeaponID),
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put character: %w", err)
	}
	return nil
}

// GetCharacter loads one character catalog row.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CharacterRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.CharacterRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CharacterRecord{}, fmt.Errorf("character id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, max_health, armor_class, attack_modifier, weapon_id, created_at, updated_at
FROM characters
WHERE id = ?
`, id)
	rec, err := scanCharacter(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	return rec, nil
}

// ListCharacters returns the full character catalog ordered by name.
func (s *Store) ListCharacters(ctx context.Context) ([]storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, max_health, armor_class, attack_modifier, weapon_id, created_at, updated_at
FROM characters
ORDER BY name ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var results []storage.CharacterRecord
	for rows.Next() {
		rec, scanErr := scanCharacter(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan character row: %w", scanErr)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate character rows: %w", err)
	}
	return results, nil
}

// PutEnemy upserts one enemy catalog row.
func (s *Store) PutEnemy(ctx context.Context, rec storage.EnemyRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	rec.ID = strings.TrimSpace(rec.ID)
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.ID == "" {
		return fmt.Errorf("enemy id is required")
	}
	if rec.Name == "" {
		return fmt.Errorf("enemy name is required")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		return fmt.Errorf("enemy timestamps are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO enemies (
		id, name, max_health, current_health, armor_class, attack_modifier, weapon_id, ai, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		max_health = excluded.max_health,
		current_health = excluded.current_health,
		armor_class = excluded.armor_class,
		attack_modifier = excluded.attack_modifier,
		weapon_id = excluded.weapon_id,
		ai = excluded.ai,
		updated_at = excluded.updated_at
	`,
		rec.ID,
		rec.Name,
		rec.MaxHealth,
		rec.CurrentHealth,
		rec.ArmorClass,
		rec.AttackModifier,
		strings.TrimSpace(rec.WeaponID),
		string(rec.AI),
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put enemy: %w", err)
	}
	return nil
}

// GetEnemy loads one enemy catalog row.
func (s *Store) GetEnemy(ctx context.Context, id string) (storage.EnemyRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EnemyRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EnemyRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.EnemyRecord{}, fmt.Errorf("enemy id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, max_health, current_health, armor_class, attack_modifier, weapon_id, ai, created_at, updated_at
FROM enemies
WHERE id = ?
`, id)
	rec, err := scanEnemy(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.EnemyRecord{}, storage.ErrNotFound
		}
		return storage.EnemyRecord{}, fmt.Errorf("get enemy: %w", err)
	}
	return rec, nil
}

// ListEnemies returns the full enemy catalog ordered by name.
func (s *Store) ListEnemies(ctx context.Context) ([]storage.EnemyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, max_health, current_health, armor_class, attack_modifier, weapon_id, ai, created_at, updated_at
FROM enemies
ORDER BY name ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list enemies: %w", err)
	}
	defer rows.Close()

	var results []storage.EnemyRecord
	for rows.Next() {
		rec, scanErr := scanEnemy(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan enemy row: %w", scanErr)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enemy rows: %w", err)
	}
	return results, nil
}

// PutWeapon upserts one weapon catalog row.
func (s *Store) PutWeapon(ctx context.Context, rec storage.WeaponRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	rec.ID = strings.TrimSpace(rec.ID)
	rec.Name = strings.TrimSpace(rec.Name)
	if rec.ID == "" {
		return fmt.Errorf("weapon id is required")
	}
	if rec.Name == "" {
		return fmt.Errorf("weapon name is required")
	}
	if rec.DiceCount < 1 || rec.DiceSides < 1 {
		return fmt.Errorf("weapon dice are required")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		return fmt.Errorf("weapon timestamps are required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO weapons (
		id, name, dice_count, dice_sides, damage_modifier, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		dice_count = excluded.dice_count,
		dice_sides = excluded.dice_sides,
		damage_modifier = excluded.damage_modifier,
		updated_at = excluded.updated_at
	`,
		rec.ID,
		rec.Name,
		rec.DiceCount,
		rec.DiceSides,
		rec.DamageModifier,
		toMillis(rec.CreatedAt),
		toMillis(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put weapon: %w", err)
	}
	return nil
}

// GetWeapon loads one weapon catalog row.
func (s *Store) GetWeapon(ctx context.Context, id string) (storage.WeaponRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.WeaponRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.WeaponRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.WeaponRecord{}, fmt.Errorf("weapon id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, dice_count, dice_sides, damage_modifier, created_at, updated_at
FROM weapons
WHERE id = ?
`, id)
	rec, err := scanWeapon(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.WeaponRecord{}, storage.ErrNotFound
		}
		return storage.WeaponRecord{}, fmt.Errorf("get weapon: %w", err)
	}
	return rec, nil
}

// ListWeapons returns the full weapon catalog ordered by name.
func (s *Store) ListWeapons(ctx context.Context) ([]storage.WeaponRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, dice_count, dice_sides, damage_modifier, created_at, updated_at
FROM weapons
ORDER BY name ASC, id ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list weapons: %w", err)
	}
	defer rows.Close()

	var results []storage.WeaponRecord
	for rows.Next() {
		rec, scanErr := scanWeapon(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan weapon row: %w", scanErr)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weapon rows: %w", err)
	}
	return results, nil
}

func scanCharacter(scan scanner) (storage.CharacterRecord, error) {
	var rec storage.CharacterRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&rec.ID,
		&rec.Name,
		&rec.MaxHealth,
		&rec.ArmorClass,
		&rec.AttackModifier,
		&rec.WeaponID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.CharacterRecord{}, err
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func scanEnemy(scan scanner) (storage.EnemyRecord, error) {
	var rec storage.EnemyRecord
	var ai string
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&rec.ID,
		&rec.Name,
		&rec.MaxHealth,
		&rec.CurrentHealth,
		&rec.ArmorClass,
		&rec.AttackModifier,
		&rec.WeaponID,
		&ai,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.EnemyRecord{}, err
	}
	rec.AI = aiStateFromString(ai)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}

func scanWeapon(scan scanner) (storage.WeaponRecord, error) {
	var rec storage.WeaponRecord
	var createdAt int64
	var updatedAt int64
	if err := scan(
		&rec.ID,
		&rec.Name,
		&rec.DiceCount,
		&rec.DiceSides,
		&rec.DamageModifier,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.WeaponRecord{}, err
	}
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}
