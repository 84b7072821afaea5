// Package combatfakes provides lightweight in-memory fakes for combat
// service tests.
package combatfakes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

// Store is an in-memory storage.Store fake. State maps are exported so tests
// can seed and inspect them directly.
type Store struct {
	Encounters map[string]storage.EncounterRecord
	Actions    map[string][]storage.ActionRecord
	Characters map[string]storage.CharacterRecord
	Enemies    map[string]storage.EnemyRecord
	Weapons    map[string]storage.WeaponRecord

	// LastListRequest records the most recent ListActionsPage request.
	LastListRequest storage.ListActionsPageRequest

	// Err fails every call when set. SaveErr fails SaveEncounter only.
	Err     error
	SaveErr error
}

var _ storage.Store = (*Store)(nil)

// NewStore constructs a Store fake with initialized state maps.
func NewStore() *Store {
	return &Store{
		Encounters: make(map[string]storage.EncounterRecord),
		Actions:    make(map[string][]storage.ActionRecord),
		Characters: make(map[string]storage.CharacterRecord),
		Enemies:    make(map[string]storage.EnemyRecord),
		Weapons:    make(map[string]storage.WeaponRecord),
	}
}

func (s *Store) CreateEncounter(_ context.Context, rec storage.EncounterRecord) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Encounters[rec.ID]; ok {
		return fmt.Errorf("encounter %s already exists", rec.ID)
	}
	s.Encounters[rec.ID] = rec
	return nil
}

func (s *Store) GetEncounter(_ context.Context, id string) (storage.EncounterRecord, error) {
	if s.Err != nil {
		return storage.EncounterRecord{}, s.Err
	}
	rec, ok := s.Encounters[id]
	if !ok {
		return storage.EncounterRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func (s *Store) SaveEncounter(_ context.Context, rec storage.EncounterRecord, expectedVersion uint64, actions []storage.ActionRecord) error {
	if s.Err != nil {
		return s.Err
	}
	if s.SaveErr != nil {
		return s.SaveErr
	}
	stored, ok := s.Encounters[rec.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	s.Encounters[rec.ID] = rec
	lastSeq := uint64(len(s.Actions[rec.ID]))
	for i, action := range actions {
		action.EncounterID = rec.ID
		action.Seq = lastSeq + uint64(i) + 1
		s.Actions[rec.ID] = append(s.Actions[rec.ID], action)
	}
	return nil
}

func (s *Store) ListActionsPage(_ context.Context, req storage.ListActionsPageRequest) (storage.ListActionsPageResult, error) {
	if s.Err != nil {
		return storage.ListActionsPageResult{}, s.Err
	}
	s.LastListRequest = req

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	totalCount := 0
	filtered := make([]storage.ActionRecord, 0)
	for _, action := range s.Actions[req.EncounterID] {
		if !actionMatchesPageFilter(action, req.FilterClause, req.FilterParams) {
			continue
		}
		totalCount++
		switch req.CursorDir {
		case "fwd":
			if action.Seq <= req.CursorSeq {
				continue
			}
		case "bwd":
			if action.Seq >= req.CursorSeq {
				continue
			}
		}
		filtered = append(filtered, action)
	}

	descending := req.Descending
	if req.CursorReverse {
		descending = !descending
	}
	if descending {
		reverseActions(filtered)
	}

	hasMore := len(filtered) > pageSize
	if hasMore {
		filtered = filtered[:pageSize]
	}
	if req.CursorReverse {
		reverseActions(filtered)
	}

	result := storage.ListActionsPageResult{
		Actions:    filtered,
		TotalCount: totalCount,
	}
	if req.CursorReverse {
		result.HasNextPage = true
		result.HasPrevPage = hasMore
	} else {
		result.HasNextPage = hasMore
		result.HasPrevPage = req.CursorSeq > 0
	}
	return result, nil
}

func (s *Store) CountActions(_ context.Context, encounterID string) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.Actions[encounterID]), nil
}

func (s *Store) PutCharacter(_ context.Context, rec storage.CharacterRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.Characters[rec.ID] = rec
	return nil
}

func (s *Store) GetCharacter(_ context.Context, id string) (storage.CharacterRecord, error) {
	if s.Err != nil {
		return storage.CharacterRecord{}, s.Err
	}
	rec, ok := s.Characters[id]
	if !ok {
		return storage.CharacterRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListCharacters(_ context.Context) ([]storage.CharacterRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	records := make([]storage.CharacterRecord, 0, len(s.Characters))
	for _, rec := range s.Characters {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (s *Store) PutEnemy(_ context.Context, rec storage.EnemyRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.Enemies[rec.ID] = rec
	return nil
}

func (s *Store) GetEnemy(_ context.Context, id string) (storage.EnemyRecord, error) {
	if s.Err != nil {
		return storage.EnemyRecord{}, s.Err
	}
	rec, ok := s.Enemies[id]
	if !ok {
		return storage.EnemyRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListEnemies(_ context.Context) ([]storage.EnemyRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	records := make([]storage.EnemyRecord, 0, len(s.Enemies))
	for _, rec := range s.Enemies {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (s *Store) PutWeapon(_ context.Context, rec storage.WeaponRecord) error {
	if s.Err != nil {
		return s.Err
	}
	s.Weapons[rec.ID] = rec
	return nil
}

func (s *Store) GetWeapon(_ context.Context, id string) (storage.WeaponRecord, error) {
	if s.Err != nil {
		return storage.WeaponRecord{}, s.Err
	}
	rec, ok := s.Weapons[id]
	if !ok {
		return storage.WeaponRecord{}, storage.ErrNotFound
	}
	return rec, nil
}

func (s *Store) ListWeapons(_ context.Context) ([]storage.WeaponRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	records := make([]storage.WeaponRecord, 0, len(s.Weapons))
	for _, rec := range s.Weapons {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

func (s *Store) GetCombatStatistics(_ context.Context, since *time.Time) (storage.CombatStatistics, error) {
	if s.Err != nil {
		return storage.CombatStatistics{}, s.Err
	}
	var stats storage.CombatStatistics
	for _, rec := range s.Encounters {
		if since != nil && rec.CreatedAt.Before(*since) {
			continue
		}
		stats.EncounterCount++
		if rec.Status == domain.EncounterStatusCompleted {
			stats.CompletedCount++
		}
		switch rec.Winner {
		case domain.WinnerPlayers:
			stats.PlayerWins++
		case domain.WinnerEnemies:
			stats.EnemyWins++
		case domain.WinnerDraw:
			stats.Draws++
		}
	}
	for _, actions := range s.Actions {
		for _, action := range actions {
			if since != nil && action.CreatedAt.Before(*since) {
				continue
			}
			stats.ActionCount++
		}
	}
	return stats, nil
}

func (s *Store) Close() error {
	return nil
}

// actionMatchesPageFilter interprets the handful of filter clauses the
// translator produces, popping positional params in clause order.
func actionMatchesPageFilter(action storage.ActionRecord, clause string, params []any) bool {
	if strings.TrimSpace(clause) == "" {
		return true
	}

	paramIndex := 0
	nextString := func() (string, bool) {
		if paramIndex >= len(params) {
			return "", false
		}
		value, ok := params[paramIndex].(string)
		if !ok {
			return "", false
		}
		paramIndex++
		return value, true
	}
	nextInt := func() (int64, bool) {
		if paramIndex >= len(params) {
			return 0, false
		}
		value, ok := params[paramIndex].(int64)
		if !ok {
			return 0, false
		}
		paramIndex++
		return value, true
	}

	if strings.Contains(clause, "attacker_id = ?") {
		value, ok := nextString()
		if !ok || action.AttackerID != value {
			return false
		}
	}
	if strings.Contains(clause, "target_id = ?") {
		value, ok := nextString()
		if !ok || action.TargetID != value {
			return false
		}
	}
	if strings.Contains(clause, "hit = ?") {
		value, ok := nextInt()
		if !ok || boolToInt(action.Hit) != value {
			return false
		}
	}
	if strings.Contains(clause, "critical = ?") {
		value, ok := nextInt()
		if !ok || boolToInt(action.Critical) != value {
			return false
		}
	}
	if strings.Contains(clause, "damage >= ?") {
		value, ok := nextInt()
		if !ok || int64(action.Damage) < value {
			return false
		}
	}

	return true
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func reverseActions(actions []storage.ActionRecord) {
	for i, j := 0, len(actions)-1; i < j; i, j = i+1, j-1 {
		actions[i], actions[j] = actions[j], actions[i]
	}
}
