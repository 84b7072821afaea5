package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

type listActionsPageSQLPlan struct {
	whereClause      string
	params           []any
	orderClause      string
	limitClause      string
	countWhereClause string
	countParams      []any
}

func buildListActionsPageSQLPlan(req storage.ListActionsPageRequest) listActionsPageSQLPlan {
	whereClause := "encounter_id = ?"
	params := []any{req.EncounterID}

	// The cursor direction determines comparison operators; sort order is applied separately.
	if req.CursorSeq > 0 {
		if req.CursorDir == "bwd" {
			whereClause += " AND seq < ?"
		} else {
			whereClause += " AND seq > ?"
		}
		params = append(params, req.CursorSeq)
	}

	if req.FilterClause != "" {
		whereClause += " AND " + req.FilterClause
		params = append(params, req.FilterParams...)
	}

	orderClause := "ORDER BY seq ASC"
	if req.Descending {
		orderClause = "ORDER BY seq DESC"
	}
	// Reverse sort temporarily for previous-page queries so near-edge rows are fetched first.
	if req.CursorReverse {
		if req.Descending {
			orderClause = "ORDER BY seq ASC"
		} else {
			orderClause = "ORDER BY seq DESC"
		}
	}

	countWhereClause := "encounter_id = ?"
	countParams := []any{req.EncounterID}
	if req.FilterClause != "" {
		countWhereClause += " AND " + req.FilterClause
		countParams = append(countParams, req.FilterParams...)
	}

	return listActionsPageSQLPlan{
		whereClause:      whereClause,
		params:           params,
		orderClause:      orderClause,
		limitClause:      fmt.Sprintf("LIMIT %d", req.PageSize+1),
		countWhereClause: countWhereClause,
		countParams:      countParams,
	}
}

// ListActionsPage returns a paginated, filtered slice of the action journal.
func (s *Store) ListActionsPage(ctx context.Context, req storage.ListActionsPageRequest) (storage.ListActionsPageResult, error) {
	if err := ctx.Err(); err != nil {
		return storage.ListActionsPageResult{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ListActionsPageResult{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(req.EncounterID) == "" {
		return storage.ListActionsPageResult{}, fmt.Errorf("encounter id is required")
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}
	if req.PageSize > 200 {
		req.PageSize = 200
	}

	plan := buildListActionsPageSQLPlan(req)

	query := fmt.Sprintf(
		"SELECT encounter_id, seq, id, attacker_id, target_id, attack_roll, attack_modifier, attack_total, target_armor_class, hit, critical, weapon_name, damage_notation, damage_rolls_json, damage_modifier, damage, target_health_after, created_at FROM encounter_actions WHERE %s %s %s",
		plan.whereClause,
		plan.orderClause,
		plan.limitClause,
	)

	rows, err := s.sqlDB.QueryContext(ctx, query, plan.params...)
	if err != nil {
		return storage.ListActionsPageResult{}, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	actions := make([]storage.ActionRecord, 0, req.PageSize)
	for rows.Next() {
		action, scanErr := scanAction(rows.Scan)
		if scanErr != nil {
			return storage.ListActionsPageResult{}, fmt.Errorf("scan action row: %w", scanErr)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return storage.ListActionsPageResult{}, fmt.Errorf("iterate action rows: %w", err)
	}

	hasMore := len(actions) > req.PageSize
	if hasMore {
		actions = actions[:req.PageSize]
	}

	// For "previous page" navigation, reverse the results to maintain consistent order.
	if req.CursorReverse {
		for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
			actions[i], actions[j] = actions[j], actions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM encounter_actions WHERE %s", plan.countWhereClause)
	var totalCount int
	if err := s.sqlDB.QueryRowContext(ctx, countQuery, plan.countParams...).Scan(&totalCount); err != nil {
		return storage.ListActionsPageResult{}, fmt.Errorf("count actions: %w", err)
	}

	result := storage.ListActionsPageResult{
		Actions:    actions,
		TotalCount: totalCount,
	}

	if req.CursorReverse {
		result.HasNextPage = true // We came from next, so there is a next
		result.HasPrevPage = hasMore
	} else {
		result.HasNextPage = hasMore
		result.HasPrevPage = req.CursorSeq > 0
	}

	return result, nil
}

// CountActions returns the total journal length for an encounter.
func (s *Store) CountActions(ctx context.Context, encounterID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return 0, fmt.Errorf("encounter id is required")
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(1) FROM encounter_actions WHERE encounter_id = ?
`, encounterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return count, nil
}

func scanAction(scan scanner) (storage.ActionRecord, error) {
	var rec storage.ActionRecord
	var hit int64
	var critical int64
	var rollsJSON string
	var createdAt int64
	if err := scan(
		&rec.EncounterID,
		&rec.Seq,
		&rec.ID,
		&rec.AttackerID,
		&rec.TargetID,
		&rec.AttackRoll,
		&rec.AttackModifier,
		&rec.AttackTotal,
		&rec.TargetArmorClass,
		&hit,
		&critical,
		&rec.WeaponName,
		&rec.DamageNotation,
		&rollsJSON,
		&rec.DamageModifier,
		&rec.Damage,
		&rec.TargetHealthAfter,
		&createdAt,
	); err != nil {
		return storage.ActionRecord{}, err
	}
	rec.Hit = intToBool(hit)
	rec.Critical = intToBool(critical)
	rec.CreatedAt = fromMillis(createdAt)
	if rollsJSON != "" && rollsJSON != "[]" {
		if err := json.Unmarshal([]byte(rollsJSON), &rec.DamageRolls); err != nil {
			return storage.ActionRecord{}, fmt.Errorf("unmarshal damage rolls: %w", err)
		}
	}
	return rec, nil
}
