package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/emberhollow/adventure/internal/core/dice"
	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
)

// scriptRoller feeds predetermined rolls into attack resolution. Draws
// beyond the script return ones.
type scriptRoller struct {
	dieRolls  []int
	dieErr    error
	specRolls [][]int
	specErr   error
	lastSpec  dice.Spec
}

func (r *scriptRoller) RollDie(sides int) (int, error) {
	if r.dieErr != nil {
		return 0, r.dieErr
	}
	if len(r.dieRolls) == 0 {
		return 1, nil
	}
	roll := r.dieRolls[0]
	r.dieRolls = r.dieRolls[1:]
	return roll, nil
}

func (r *scriptRoller) RollSpec(spec dice.Spec) ([]int, error) {
	r.lastSpec = spec
	if r.specErr != nil {
		return nil, r.specErr
	}
	if len(r.specRolls) == 0 {
		rolls := make([]int, spec.Count)
		for i := range rolls {
			rolls[i] = 1
		}
		return rolls, nil
	}
	rolls := r.specRolls[0]
	r.specRolls = r.specRolls[1:]
	return rolls, nil
}

func TestResolveAttackHitDealsDamage(t *testing.T) {
	fixedTime := time.Date(2026, 3, 14, 20, 10, 0, 0, time.UTC)
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 0
	attacker.Weapon = Weapon{Name: "Shortbow", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{5}}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(),
		func() time.Time { return fixedTime }, func() (string, error) { return "act-1", nil })
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if action.ID != "act-1" {
		t.Fatalf("expected action id act-1, got %q", action.ID)
	}
	if !action.Hit || action.Critical {
		t.Fatalf("expected plain hit, got hit=%v critical=%v", action.Hit, action.Critical)
	}
	if action.AttackRoll != 15 || action.AttackTotal != 15 {
		t.Fatalf("expected roll 15 total 15, got %d/%d", action.AttackRoll, action.AttackTotal)
	}
	if action.TargetArmorClass != 12 {
		t.Fatalf("expected armor class 12, got %d", action.TargetArmorClass)
	}
	if action.WeaponName != "Shortbow" || action.DamageNotation != "1d8" {
		t.Fatalf("expected shortbow 1d8, got %q %q", action.WeaponName, action.DamageNotation)
	}
	if action.Damage != 5 {
		t.Fatalf("expected damage 5, got %d", action.Damage)
	}
	if action.TargetHealthAfter != 5 {
		t.Fatalf("expected target at 5 health, got %d", action.TargetHealthAfter)
	}
	if !action.CreatedAt.Equal(fixedTime) {
		t.Fatalf("expected created_at %v, got %v", fixedTime, action.CreatedAt)
	}

	if target.CurrentHealth != 5 {
		t.Fatalf("expected target health 5, got %d", target.CurrentHealth)
	}
	if target.LastAttackerID != "cmb-1" {
		t.Fatalf("expected target to remember its attacker, got %q", target.LastAttackerID)
	}
	if len(encounter.History) != 1 {
		t.Fatalf("expected 1 recorded action, got %d", len(encounter.History))
	}
}

func TestResolveAttackNatural20AlwaysCritsAndDoublesDice(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 0
	attacker.Weapon = Weapon{Name: "Dagger", Damage: DamageSpec{DiceCount: 1, DiceSides: 6, Modifier: 2}}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 30, 10)
	target.ArmorClass = 40
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{20}, specRolls: [][]int{{4, 5}}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if !action.Hit || !action.Critical {
		t.Fatalf("expected critical hit against impossible armor, got hit=%v critical=%v", action.Hit, action.Critical)
	}
	if roller.lastSpec.Count != 2 || roller.lastSpec.Sides != 6 {
		t.Fatalf("expected doubled dice 2d6, got %dd%d", roller.lastSpec.Count, roller.lastSpec.Sides)
	}
	// Dice doubled, flat modifier applied once: 4+5+2.
	if action.Damage != 11 {
		t.Fatalf("expected damage 11, got %d", action.Damage)
	}
	if len(action.DamageRolls) != 2 {
		t.Fatalf("expected 2 damage rolls, got %d", len(action.DamageRolls))
	}
	if action.DamageNotation != "1d6+2" {
		t.Fatalf("expected base notation 1d6+2, got %q", action.DamageNotation)
	}
}

func TestResolveAttackNatural1AlwaysMisses(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 30
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	target.ArmorClass = 10
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{1}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if action.Hit {
		t.Fatalf("expected natural 1 to miss despite total %d", action.AttackTotal)
	}
	if action.Damage != 0 || action.DamageRolls != nil {
		t.Fatalf("expected no damage on a miss, got %d %v", action.Damage, action.DamageRolls)
	}
	if action.TargetHealthAfter != 10 {
		t.Fatalf("expected target health unchanged, got %d", action.TargetHealthAfter)
	}
	if target.CurrentHealth != 10 {
		t.Fatalf("expected target untouched, got %d", target.CurrentHealth)
	}
	if target.LastAttackerID != "cmb-1" {
		t.Fatalf("expected a miss to still mark the attacker, got %q", target.LastAttackerID)
	}
	if len(encounter.History) != 1 {
		t.Fatalf("expected the miss recorded, got %d actions", len(encounter.History))
	}
}

func TestResolveAttackMinimumDamageIsOne(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 0
	attacker.Weapon = Weapon{Name: "Cursed Blade", Damage: DamageSpec{DiceCount: 1, DiceSides: 4, Modifier: -10}}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{2}}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if action.Damage != 1 {
		t.Fatalf("expected damage floor of 1, got %d", action.Damage)
	}
	if target.CurrentHealth != 9 {
		t.Fatalf("expected target at 9 health, got %d", target.CurrentHealth)
	}
}

func TestResolveAttackDefeatsTarget(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 0
	attacker.Weapon = Weapon{Name: "Maul", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 3, 10)
	target.MaxHealth = 10
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{7}}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if action.TargetHealthAfter != 0 {
		t.Fatalf("expected health clamped at 0, got %d", action.TargetHealthAfter)
	}
	if target.Status != CombatantStatusDefeated {
		t.Fatalf("expected target defeated, got %v", target.Status)
	}
}

func TestResolveAttackRefreshesTargetAI(t *testing.T) {
	t.Run("under half turns defensive", func(t *testing.T) {
		attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
		attacker.AttackModifier = 0
		attacker.Weapon = Weapon{Name: "Spear", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}
		target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
		encounter := startedEncounter(t, attacker, target)

		roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{6}}}
		if _, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil); err != nil {
			t.Fatalf("resolve attack: %v", err)
		}
		if target.AI != AIStateDefensive {
			t.Fatalf("expected defensive at 4/10, got %v", target.AI)
		}
	})

	t.Run("at quarter turns to flight", func(t *testing.T) {
		attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
		attacker.AttackModifier = 0
		attacker.Weapon = Weapon{Name: "Spear", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}
		target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
		encounter := startedEncounter(t, attacker, target)

		roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{8}}}
		if _, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil); err != nil {
			t.Fatalf("resolve attack: %v", err)
		}
		if target.AI != AIStateFlee {
			t.Fatalf("expected flee at 2/10, got %v", target.AI)
		}
	})
}

func TestResolveAttackUnarmedFallback(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.AttackModifier = 0
	attacker.Weapon = Weapon{}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{15}, specRolls: [][]int{{3}}}
	action, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if action.WeaponName != "Unarmed Strike" || action.DamageNotation != "1d4" {
		t.Fatalf("expected unarmed strike 1d4, got %q %q", action.WeaponName, action.DamageNotation)
	}
	if roller.lastSpec.Sides != 4 || roller.lastSpec.Count != 1 {
		t.Fatalf("expected 1d4 drawn, got %dd%d", roller.lastSpec.Count, roller.lastSpec.Sides)
	}
}

func TestResolveAttackEnemyTurnWorksTheSameWay(t *testing.T) {
	character := testCombatant("cmb-1", CombatantTypeCharacter, 20, 10)
	enemy := testCombatant("cmb-2", CombatantTypeEnemy, 10, 18)
	enemy.AttackModifier = 1
	enemy.Weapon = Weapon{Name: "Rusty Knife", Damage: DamageSpec{DiceCount: 1, DiceSides: 4}}
	encounter := startedEncounter(t, character, enemy)

	roller := &scriptRoller{dieRolls: []int{14}, specRolls: [][]int{{4}}}
	action, err := encounter.ResolveAttack("cmb-2", "cmb-1", roller, DefaultRules(), nil, nil)
	if err != nil {
		t.Fatalf("resolve attack: %v", err)
	}

	if !action.Hit {
		t.Fatalf("expected 15 vs armor 12 to hit")
	}
	if character.CurrentHealth != 16 {
		t.Fatalf("expected character at 16 health, got %d", character.CurrentHealth)
	}
	if character.AI != AIStateNone {
		t.Fatalf("expected character to stay player-driven, got %v", character.AI)
	}
}

func TestResolveAttackOutOfTurn(t *testing.T) {
	character := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	enemy := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, character, enemy)

	roller := &scriptRoller{}
	_, err := encounter.ResolveAttack("cmb-2", "cmb-1", roller, DefaultRules(), nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeEncounterNotYourTurn) {
		t.Fatalf("expected not-your-turn, got %v", err)
	}
	if metadata := apperrors.GetMetadata(err); metadata["ActiveName"] != "cmb-1" {
		t.Fatalf("expected active name metadata, got %v", metadata)
	}
	if len(encounter.History) != 0 {
		t.Fatalf("expected no recorded action, got %d", len(encounter.History))
	}
}

func TestResolveAttackTargetGuards(t *testing.T) {
	newFight := func(t *testing.T) *Encounter {
		t.Helper()
		return startedEncounter(t,
			testCombatant("cmb-1", CombatantTypeCharacter, 20, 20),
			testCombatant("cmb-3", CombatantTypeCharacter, 20, 15),
			testCombatant("cmb-2", CombatantTypeEnemy, 10, 10),
		)
	}

	tests := []struct {
		name     string
		targetID string
		mutate   func(*Encounter)
		code     apperrors.Code
	}{
		{
			name:     "missing target",
			targetID: "cmb-9",
			mutate:   func(*Encounter) {},
			code:     apperrors.CodeCombatantNotFound,
		},
		{
			name:     "same side target",
			targetID: "cmb-3",
			mutate:   func(*Encounter) {},
			code:     apperrors.CodeAttackInvalidTarget,
		},
		{
			name:     "defeated target",
			targetID: "cmb-2",
			mutate: func(e *Encounter) {
				e.CombatantByID("cmb-2").Status = CombatantStatusDefeated
			},
			code: apperrors.CodeAttackInvalidTarget,
		},
		{
			name:     "fled target",
			targetID: "cmb-2",
			mutate: func(e *Encounter) {
				e.CombatantByID("cmb-2").Status = CombatantStatusFled
			},
			code: apperrors.CodeAttackInvalidTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encounter := newFight(t)
			tt.mutate(encounter)
			healthBefore := encounter.CombatantByID("cmb-2").CurrentHealth

			_, err := encounter.ResolveAttack("cmb-1", tt.targetID, &scriptRoller{}, DefaultRules(), nil, nil)
			if !apperrors.IsCode(err, tt.code) {
				t.Fatalf("expected code %s, got %v", tt.code, err)
			}
			if len(encounter.History) != 0 {
				t.Fatalf("expected no recorded action, got %d", len(encounter.History))
			}
			if got := encounter.CombatantByID("cmb-2").CurrentHealth; got != healthBefore {
				t.Fatalf("expected health untouched, got %d", got)
			}
		})
	}
}

func TestResolveAttackRequiresRunningEncounter(t *testing.T) {
	encounter := newTestEncounter(t,
		testCombatant("cmb-1", CombatantTypeCharacter, 20, 15),
		testCombatant("cmb-2", CombatantTypeEnemy, 10, 10),
	)

	_, err := encounter.ResolveAttack("cmb-1", "cmb-2", &scriptRoller{}, DefaultRules(), nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeEncounterStatusDisallowsOp) {
		t.Fatalf("expected status guard, got %v", err)
	}
}

func TestResolveAttackProviderFailureLeavesStateUntouched(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieErr: errors.New("provider down")}
	_, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeDiceProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}

	if target.CurrentHealth != 10 {
		t.Fatalf("expected target untouched, got %d", target.CurrentHealth)
	}
	if target.LastAttackerID != "" {
		t.Fatalf("expected no attacker recorded, got %q", target.LastAttackerID)
	}
	if len(encounter.History) != 0 {
		t.Fatalf("expected no recorded action, got %d", len(encounter.History))
	}
}

func TestResolveAttackDamageRollFailureLeavesStateUntouched(t *testing.T) {
	attacker := testCombatant("cmb-1", CombatantTypeCharacter, 20, 15)
	attacker.Weapon = Weapon{Name: "Spear", Damage: DamageSpec{DiceCount: 1, DiceSides: 8}}
	target := testCombatant("cmb-2", CombatantTypeEnemy, 10, 10)
	encounter := startedEncounter(t, attacker, target)

	roller := &scriptRoller{dieRolls: []int{15}, specErr: errors.New("provider down")}
	_, err := encounter.ResolveAttack("cmb-1", "cmb-2", roller, DefaultRules(), nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeDiceProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}

	// The attack die was already drawn, but nothing may have changed.
	if target.CurrentHealth != 10 || target.LastAttackerID != "" || target.AI != AIStateAggressive {
		t.Fatalf("expected target untouched, got health=%d attacker=%q ai=%v",
			target.CurrentHealth, target.LastAttackerID, target.AI)
	}
	if len(encounter.History) != 0 {
		t.Fatalf("expected no recorded action, got %d", len(encounter.History))
	}
}
