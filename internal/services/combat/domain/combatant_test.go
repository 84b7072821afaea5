package domain

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
)

func TestNewCombatantFromCharacterEntersAtFullHealth(t *testing.T) {
	snapshot := CharacterSnapshot{
		ID:             "char-1",
		Name:           "  Rook  ",
		MaxHealth:      24,
		ArmorClass:     15,
		AttackModifier: 3,
		Weapon:         Weapon{Name: "Longsword", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}},
	}

	combatant, err := NewCombatantFromCharacter(snapshot, 14, 2, func() (string, error) {
		return "cmb-1", nil
	})
	if err != nil {
		t.Fatalf("new combatant: %v", err)
	}

	if combatant.ID != "cmb-1" {
		t.Fatalf("expected id cmb-1, got %q", combatant.ID)
	}
	if combatant.SourceID != "char-1" {
		t.Fatalf("expected source id char-1, got %q", combatant.SourceID)
	}
	if combatant.Name != "Rook" {
		t.Fatalf("expected trimmed name, got %q", combatant.Name)
	}
	if combatant.Type != CombatantTypeCharacter {
		t.Fatalf("expected character type, got %v", combatant.Type)
	}
	if combatant.CurrentHealth != 24 || combatant.MaxHealth != 24 {
		t.Fatalf("expected full health 24/24, got %d/%d", combatant.CurrentHealth, combatant.MaxHealth)
	}
	if combatant.Status != CombatantStatusActive {
		t.Fatalf("expected active status, got %v", combatant.Status)
	}
	if combatant.AI != AIStateNone {
		t.Fatalf("expected no ai state for a character, got %v", combatant.AI)
	}
	if combatant.InitiativeScore != 17 {
		t.Fatalf("expected initiative score 17, got %d", combatant.InitiativeScore)
	}
	if combatant.Tiebreaker != 2 {
		t.Fatalf("expected tiebreaker 2, got %d", combatant.Tiebreaker)
	}
}

func TestNewCombatantFromEnemyKeepsCurrentHealth(t *testing.T) {
	snapshot := EnemySnapshot{
		ID:             "enemy-1",
		Name:           "Goblin Scout",
		CurrentHealth:  4,
		MaxHealth:      10,
		ArmorClass:     12,
		AttackModifier: 1,
		AI:             AIStateDefensive,
	}

	combatant, err := NewCombatantFromEnemy(snapshot, 9, 1, func() (string, error) {
		return "cmb-2", nil
	})
	if err != nil {
		t.Fatalf("new combatant: %v", err)
	}

	if combatant.CurrentHealth != 4 {
		t.Fatalf("expected wounded enemy to keep health 4, got %d", combatant.CurrentHealth)
	}
	if combatant.AI != AIStateDefensive {
		t.Fatalf("expected copied ai state, got %v", combatant.AI)
	}
	if combatant.InitiativeScore != 10 {
		t.Fatalf("expected initiative score 10, got %d", combatant.InitiativeScore)
	}
}

func TestNewCombatantFromEnemyDefaultsAggressive(t *testing.T) {
	snapshot := EnemySnapshot{
		ID:            "enemy-2",
		Name:          "Cave Rat",
		CurrentHealth: 6,
		MaxHealth:     6,
		ArmorClass:    10,
	}

	combatant, err := NewCombatantFromEnemy(snapshot, 5, 3, nil)
	if err != nil {
		t.Fatalf("new combatant: %v", err)
	}
	if combatant.AI != AIStateAggressive {
		t.Fatalf("expected aggressive default, got %v", combatant.AI)
	}
}

func TestNewCombatantValidation(t *testing.T) {
	valid := EnemySnapshot{
		ID:            "enemy-1",
		Name:          "Goblin Scout",
		CurrentHealth: 10,
		MaxHealth:     10,
		ArmorClass:    12,
	}

	tests := []struct {
		name   string
		mutate func(*EnemySnapshot)
		roll   int
		code   apperrors.Code
	}{
		{
			name:   "empty source id",
			mutate: func(s *EnemySnapshot) { s.ID = "   " },
			roll:   10,
			code:   apperrors.CodeCombatantEmptyID,
		},
		{
			name:   "blank name",
			mutate: func(s *EnemySnapshot) { s.Name = "   " },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidName,
		},
		{
			name:   "name over 100 runes",
			mutate: func(s *EnemySnapshot) { s.Name = strings.Repeat("a", 101) },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidName,
		},
		{
			name:   "zero max health",
			mutate: func(s *EnemySnapshot) { s.MaxHealth = 0; s.CurrentHealth = 0 },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidHealth,
		},
		{
			name:   "current health above max",
			mutate: func(s *EnemySnapshot) { s.CurrentHealth = 11 },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidHealth,
		},
		{
			name:   "no health remaining",
			mutate: func(s *EnemySnapshot) { s.CurrentHealth = 0 },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidHealth,
		},
		{
			name:   "armor class below 10",
			mutate: func(s *EnemySnapshot) { s.ArmorClass = 9 },
			roll:   10,
			code:   apperrors.CodeCombatantInvalidArmor,
		},
		{
			name:   "initiative roll too low",
			mutate: func(s *EnemySnapshot) {},
			roll:   0,
			code:   apperrors.CodeCombatantInvalidInitiative,
		},
		{
			name:   "initiative roll too high",
			mutate: func(s *EnemySnapshot) {},
			roll:   21,
			code:   apperrors.CodeCombatantInvalidInitiative,
		},
		{
			name: "unrollable weapon dice",
			mutate: func(s *EnemySnapshot) {
				s.Weapon = Weapon{Name: "Broken Club", Damage: DamageSpec{DiceCount: 0, DiceSides: 6}}
			},
			roll: 10,
			code: apperrors.CodeDiceInvalidSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := valid
			tt.mutate(&snapshot)
			_, err := NewCombatantFromEnemy(snapshot, tt.roll, 0, nil)
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestNewCombatantAllowsLongUnicodeName(t *testing.T) {
	snapshot := EnemySnapshot{
		ID:            "enemy-1",
		Name:          strings.Repeat("é", 100),
		CurrentHealth: 10,
		MaxHealth:     10,
		ArmorClass:    12,
	}
	if _, err := NewCombatantFromEnemy(snapshot, 10, 0, nil); err != nil {
		t.Fatalf("expected 100-rune name to pass, got %v", err)
	}
}

func TestNewCombatantIDGeneratorFailure(t *testing.T) {
	snapshot := CharacterSnapshot{
		ID:         "char-1",
		Name:       "Rook",
		MaxHealth:  10,
		ArmorClass: 12,
	}
	wantErr := errors.New("id source down")
	_, err := NewCombatantFromCharacter(snapshot, 10, 0, func() (string, error) {
		return "", wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}

func TestDamageSpecNotation(t *testing.T) {
	tests := []struct {
		name string
		spec DamageSpec
		want string
	}{
		{name: "positive modifier", spec: DamageSpec{DiceCount: 2, DiceSides: 6, Modifier: 3}, want: "2d6+3"},
		{name: "no modifier", spec: DamageSpec{DiceCount: 1, DiceSides: 4}, want: "1d4"},
		{name: "negative modifier", spec: DamageSpec{DiceCount: 1, DiceSides: 6, Modifier: -1}, want: "1d6-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Notation(); got != tt.want {
				t.Fatalf("Notation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTakeDamageClampsAtZeroAndDefeats(t *testing.T) {
	combatant := &Combatant{
		Name:          "Goblin Scout",
		Type:          CombatantTypeEnemy,
		CurrentHealth: 5,
		MaxHealth:     10,
		Status:        CombatantStatusActive,
	}

	before, after := combatant.TakeDamage(3)
	if before != 5 || after != 2 {
		t.Fatalf("expected 5 -> 2, got %d -> %d", before, after)
	}
	if combatant.Status != CombatantStatusActive {
		t.Fatalf("expected still active, got %v", combatant.Status)
	}

	before, after = combatant.TakeDamage(9)
	if before != 2 || after != 0 {
		t.Fatalf("expected 2 -> 0, got %d -> %d", before, after)
	}
	if combatant.Status != CombatantStatusDefeated {
		t.Fatalf("expected defeated at zero health, got %v", combatant.Status)
	}
}

func TestTakeDamageIgnoresTheFallen(t *testing.T) {
	combatant := &Combatant{
		CurrentHealth: 0,
		MaxHealth:     10,
		Status:        CombatantStatusDefeated,
	}
	before, after := combatant.TakeDamage(4)
	if before != 0 || after != 0 {
		t.Fatalf("expected no-op on defeated combatant, got %d -> %d", before, after)
	}
	if combatant.Status != CombatantStatusDefeated {
		t.Fatalf("expected status unchanged, got %v", combatant.Status)
	}

	fled := &Combatant{
		CurrentHealth: 6,
		MaxHealth:     10,
		Status:        CombatantStatusFled,
	}
	before, after = fled.TakeDamage(4)
	if before != 6 || after != 6 {
		t.Fatalf("expected no-op on fled combatant, got %d -> %d", before, after)
	}
}

func TestMarkFledIgnoresHealth(t *testing.T) {
	combatant := &Combatant{
		CurrentHealth: 1,
		MaxHealth:     10,
		Status:        CombatantStatusActive,
	}
	combatant.MarkFled()
	if combatant.Status != CombatantStatusFled {
		t.Fatalf("expected fled, got %v", combatant.Status)
	}
	if combatant.CurrentHealth != 1 {
		t.Fatalf("expected health untouched, got %d", combatant.CurrentHealth)
	}
}

func TestHealthFraction(t *testing.T) {
	combatant := &Combatant{CurrentHealth: 5, MaxHealth: 20}
	if got := combatant.HealthFraction(); got != 0.25 {
		t.Fatalf("HealthFraction() = %v, want 0.25", got)
	}
}

func TestRefreshAIOnlyForEnemies(t *testing.T) {
	rules := DefaultRules()

	enemy := &Combatant{Type: CombatantTypeEnemy, CurrentHealth: 4, MaxHealth: 10, AI: AIStateAggressive}
	enemy.RefreshAI(rules)
	if enemy.AI != AIStateDefensive {
		t.Fatalf("expected defensive under half health, got %v", enemy.AI)
	}

	character := &Combatant{Type: CombatantTypeCharacter, CurrentHealth: 1, MaxHealth: 10}
	character.RefreshAI(rules)
	if character.AI != AIStateNone {
		t.Fatalf("expected characters to stay player-driven, got %v", character.AI)
	}
}

func TestAttackWeaponFallsBackToUnarmed(t *testing.T) {
	rules := DefaultRules()

	armed := &Combatant{Weapon: Weapon{Name: "Longsword", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}}
	if got := armed.AttackWeapon(rules); got.Name != "Longsword" {
		t.Fatalf("expected equipped weapon, got %q", got.Name)
	}

	unarmed := &Combatant{}
	got := unarmed.AttackWeapon(rules)
	if got.Name != "Unarmed Strike" {
		t.Fatalf("expected unarmed fallback, got %q", got.Name)
	}
	if got.Damage.Notation() != "1d4" {
		t.Fatalf("expected 1d4 unarmed damage, got %q", got.Damage.Notation())
	}
}
