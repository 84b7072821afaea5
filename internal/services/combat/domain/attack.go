package domain

import (
	"fmt"
	"time"

	"github.com/emberhollow/adventure/internal/core/check"
	"github.com/emberhollow/adventure/internal/core/dice"
	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/platform/id"
)

// Roller is the dice provider consumed during combat resolution.
//
// Implementations return results in [1, sides] for every die. A failed draw
// aborts the operation before any state changes.
type Roller interface {
	RollDie(sides int) (int, error)
	RollSpec(spec dice.Spec) ([]int, error)
}

// AttackAction is one immutable entry in the combat log. It is created
// exactly once per resolved attack and never mutated afterwards.
type AttackAction struct {
	ID         string
	AttackerID string
	TargetID   string

	AttackRoll       int
	AttackModifier   int
	AttackTotal      int
	TargetArmorClass int
	Hit              bool
	Critical         bool

	WeaponName     string
	DamageNotation string
	// DamageRolls holds every die drawn for damage; a critical hit doubles
	// the dice, so the slice is twice the weapon's count.
	DamageRolls    []int
	DamageModifier int
	Damage         int

	TargetHealthAfter int
	CreatedAt         time.Time
}

// ResolveAttack resolves one swing by the active combatant against a target
// on the other side.
//
// The sequence is strict: validate everything, draw every die, then mutate.
// A natural 1 always misses no matter the modifier; a natural 20 always
// hits and doubles the weapon dice, never the flat modifier. Damage bottoms
// out at 1 on a hit. The resolved action is appended to the history and the
// target remembers its attacker for defensive retaliation, hit or miss.
func (e *Encounter) ResolveAttack(attackerID, targetID string, roller Roller, rules Rules, now func() time.Time, idGenerator func() (string, error)) (AttackAction, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if err := e.ValidateOperation(OpResolve); err != nil {
		return AttackAction{}, err
	}
	active := e.ActiveCombatant()
	if active == nil || !active.IsActive() {
		return AttackAction{}, ErrNoActiveCombatants
	}
	if active.ID != attackerID {
		return AttackAction{}, apperrors.WithMetadata(
			apperrors.CodeEncounterNotYourTurn,
			fmt.Sprintf("combatant %s acted out of turn", attackerID),
			map[string]string{"ActiveName": active.Name},
		)
	}
	target := e.CombatantByID(targetID)
	if target == nil {
		return AttackAction{}, newCombatantNotFoundError(targetID)
	}
	if target.Type == active.Type || !target.IsActive() {
		return AttackAction{}, apperrors.WithMetadata(
			apperrors.CodeAttackInvalidTarget,
			fmt.Sprintf("combatant %s is not a valid target", target.ID),
			map[string]string{"TargetName": target.Name},
		)
	}

	actionID, err := idGenerator()
	if err != nil {
		return AttackAction{}, fmt.Errorf("generate action id: %w", err)
	}

	weapon := active.AttackWeapon(rules)
	attackRoll, err := roller.RollDie(check.DieSides)
	if err != nil {
		return AttackAction{}, providerFailure(err)
	}
	result := check.Against(attackRoll, active.AttackModifier, target.ArmorClass)

	action := AttackAction{
		ID:                actionID,
		AttackerID:        active.ID,
		TargetID:          target.ID,
		AttackRoll:        attackRoll,
		AttackModifier:    active.AttackModifier,
		AttackTotal:       result.Total,
		TargetArmorClass:  target.ArmorClass,
		Hit:               result.Hit,
		Critical:          result.Critical,
		WeaponName:        weapon.Name,
		DamageNotation:    weapon.Damage.Notation(),
		TargetHealthAfter: target.CurrentHealth,
		CreatedAt:         now().UTC(),
	}

	if result.Hit {
		rolls, err := rollDamage(roller, weapon.Damage, result.Critical)
		if err != nil {
			return AttackAction{}, err
		}
		damage := weapon.Damage.Modifier
		for _, roll := range rolls {
			damage += roll
		}
		if damage < 1 {
			damage = 1
		}
		action.DamageRolls = rolls
		action.DamageModifier = weapon.Damage.Modifier
		action.Damage = damage
	}

	// Every check passed and every die is drawn; mutation starts here.
	target.LastAttackerID = active.ID
	if action.Hit {
		_, after := target.TakeDamage(action.Damage)
		action.TargetHealthAfter = after
		target.RefreshAI(rules)
	}
	e.RecordAction(action)
	return action, nil
}

// rollDamage draws the weapon dice, twice over on a critical hit. The flat
// modifier is applied by the caller exactly once.
func rollDamage(roller Roller, spec DamageSpec, critical bool) ([]int, error) {
	diceSpec := spec.Dice()
	if critical {
		diceSpec.Count *= 2
	}
	rolls, err := roller.RollSpec(diceSpec)
	if err != nil {
		return nil, providerFailure(err)
	}
	return rolls, nil
}

// providerFailure wraps a roller error so callers know the encounter is
// untouched and the call is safe to retry.
func providerFailure(err error) error {
	return apperrors.Wrap(apperrors.CodeDiceProviderFailure, "dice provider failed", err)
}
