package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	storePath := filepath.Join(t.TempDir(), "combat.db")
	store, err := Open(storePath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Fatalf("close store: %v", closeErr)
		}
	})
	return store
}

func ptrTime(value time.Time) *time.Time {
	v := value.UTC()
	return &v
}

var testStoreTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// testEncounterRecord builds a two-combatant roster ready for CreateEncounter.
func testEncounterRecord(id string) storage.EncounterRecord {
	return storage.EncounterRecord{
		ID:          id,
		AdventureID: "adv-1",
		Status:      domain.EncounterStatusNotStarted,
		Version:     1,
		CreatedAt:   testStoreTime,
		UpdatedAt:   testStoreTime,
		Combatants: []storage.CombatantRecord{
			{
				EncounterID: id, ID: "cmb-1", SourceID: "char-1", Position: 0,
				Name: "Wren", Type: domain.CombatantTypeCharacter,
				CurrentHealth: 20, MaxHealth: 20, ArmorClass: 14, AttackModifier: 3,
				WeaponName: "Longsword", WeaponDiceCount: 1, WeaponDiceSides: 8, WeaponModifier: 1,
				Status: domain.CombatantStatusActive, InitiativeRoll: 12, InitiativeScore: 15, Tiebreaker: 0,
			},
			{
				EncounterID: id, ID: "cmb-2", SourceID: "enemy-1", Position: 1,
				Name: "Gnarl", Type: domain.CombatantTypeEnemy,
				CurrentHealth: 8, MaxHealth: 12, ArmorClass: 11, AttackModifier: 1,
				WeaponName: "Club", WeaponDiceCount: 1, WeaponDiceSides: 6,
				Status: domain.CombatantStatusActive, AI: domain.AIStateAggressive,
				InitiativeRoll: 17, InitiativeScore: 18, Tiebreaker: 1,
			},
		},
	}
}

func testActionRecord(encounterID, id string, hit bool, damage int) storage.ActionRecord {
	action := storage.ActionRecord{
		EncounterID:       encounterID,
		ID:                id,
		AttackerID:        "cmb-1",
		TargetID:          "cmb-2",
		AttackRoll:        15,
		AttackModifier:    3,
		AttackTotal:       18,
		TargetArmorClass:  11,
		Hit:               hit,
		WeaponName:        "Longsword",
		DamageNotation:    "1d8+1",
		TargetHealthAfter: 8,
		CreatedAt:         testStoreTime,
	}
	if hit {
		action.DamageRolls = []int{damage - 1}
		action.DamageModifier = 1
		action.Damage = damage
		action.TargetHealthAfter = 8 - damage
	}
	return action
}
