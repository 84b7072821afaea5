package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emberhollow/adventure/internal/core/dice"
	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/platform/id"
)

// CombatantType identifies which side of the encounter a combatant fights on.
type CombatantType string

const (
	CombatantTypeUnspecified CombatantType = ""
	CombatantTypeCharacter   CombatantType = "character"
	CombatantTypeEnemy       CombatantType = "enemy"
)

// CombatantStatus identifies the combatant lifecycle label.
type CombatantStatus string

const (
	CombatantStatusActive   CombatantStatus = "active"
	CombatantStatusDefeated CombatantStatus = "defeated"
	CombatantStatusFled     CombatantStatus = "fled"
)

// AIState identifies the behavioral mode of an enemy combatant.
type AIState string

const (
	AIStateNone       AIState = ""
	AIStateAggressive AIState = "aggressive"
	AIStateDefensive  AIState = "defensive"
	AIStateFlee       AIState = "flee"
)

const (
	maxCombatantNameLength = 100

	minArmorClass     = 10
	minInitiativeRoll = 1
	maxInitiativeRoll = 20
)

var (
	// ErrEmptyCombatantID indicates a missing source reference at enrollment.
	ErrEmptyCombatantID = apperrors.New(apperrors.CodeCombatantEmptyID, "combatant source id is required")
	// ErrInvalidCombatantName indicates a name outside the 1-100 character range.
	ErrInvalidCombatantName = apperrors.New(apperrors.CodeCombatantInvalidName, "combatant name must be 1-100 characters")
	// ErrInvalidInitiativeRoll indicates an initiative roll outside the d20 range.
	ErrInvalidInitiativeRoll = apperrors.New(apperrors.CodeCombatantInvalidInitiative, "initiative roll must be between 1 and 20")
)

// DamageSpec describes a damage roll as structured dice. The engine never
// parses dice expressions; Notation exists for display and logging only.
type DamageSpec struct {
	DiceCount int
	DiceSides int
	Modifier  int
}

// Notation renders the spec in dice notation, such as "2d6+3" or "1d6-1".
func (s DamageSpec) Notation() string {
	switch {
	case s.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", s.DiceCount, s.DiceSides, s.Modifier)
	case s.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", s.DiceCount, s.DiceSides, s.Modifier)
	default:
		return fmt.Sprintf("%dd%d", s.DiceCount, s.DiceSides)
	}
}

// Dice returns the rollable portion of the spec.
func (s DamageSpec) Dice() dice.Spec {
	return dice.Spec{Sides: s.DiceSides, Count: s.DiceCount}
}

// Valid reports whether the spec can be rolled.
func (s DamageSpec) Valid() bool {
	return s.DiceCount >= 1 && s.DiceSides >= 1
}

// Weapon pairs a display name with the damage dice it deals.
type Weapon struct {
	Name   string
	Damage DamageSpec
}

// IsZero reports whether no weapon is equipped.
func (w Weapon) IsZero() bool {
	return w.Name == "" && w.Damage == (DamageSpec{})
}

// Combatant is a participant inside one encounter, instantiated from a
// character or enemy snapshot. It has no lifetime outside its encounter.
type Combatant struct {
	ID       string
	SourceID string
	Name     string
	Type     CombatantType

	CurrentHealth  int
	MaxHealth      int
	ArmorClass     int
	AttackModifier int
	Weapon         Weapon

	Status CombatantStatus
	// AI is meaningful only for enemies; characters are player-driven.
	AI AIState

	InitiativeRoll  int
	InitiativeScore int
	// Tiebreaker is assigned once at enrollment and breaks initiative ties
	// deterministically without re-rolling.
	Tiebreaker int

	// LastAttackerID remembers the most recent combatant to swing at this
	// one, hit or miss. Defensive enemies retaliate against it.
	LastAttackerID string
}

// CharacterSnapshot is the immutable source data used to enroll a character.
type CharacterSnapshot struct {
	ID             string
	Name           string
	MaxHealth      int
	ArmorClass     int
	AttackModifier int
	Weapon         Weapon
}

// EnemySnapshot is the immutable source data used to enroll an enemy.
type EnemySnapshot struct {
	ID             string
	Name           string
	CurrentHealth  int
	MaxHealth      int
	ArmorClass     int
	AttackModifier int
	Weapon         Weapon
	AI             AIState
}

// NewCombatantFromCharacter enrolls a character at full health.
func NewCombatantFromCharacter(snapshot CharacterSnapshot, initiativeRoll, tiebreaker int, idGenerator func() (string, error)) (*Combatant, error) {
	return newCombatant(enrollment{
		SourceID:       snapshot.ID,
		Name:           snapshot.Name,
		Type:           CombatantTypeCharacter,
		CurrentHealth:  snapshot.MaxHealth,
		MaxHealth:      snapshot.MaxHealth,
		ArmorClass:     snapshot.ArmorClass,
		AttackModifier: snapshot.AttackModifier,
		Weapon:         snapshot.Weapon,
		InitiativeRoll: initiativeRoll,
		Tiebreaker:     tiebreaker,
	}, idGenerator)
}

// NewCombatantFromEnemy enrolls an enemy at its current health, so a
// pre-damaged enemy enters the fight already wounded. The last known AI
// state carries over; enemies without one start aggressive.
func NewCombatantFromEnemy(snapshot EnemySnapshot, initiativeRoll, tiebreaker int, idGenerator func() (string, error)) (*Combatant, error) {
	ai := snapshot.AI
	if ai == AIStateNone {
		ai = AIStateAggressive
	}
	return newCombatant(enrollment{
		SourceID:       snapshot.ID,
		Name:           snapshot.Name,
		Type:           CombatantTypeEnemy,
		CurrentHealth:  snapshot.CurrentHealth,
		MaxHealth:      snapshot.MaxHealth,
		ArmorClass:     snapshot.ArmorClass,
		AttackModifier: snapshot.AttackModifier,
		Weapon:         snapshot.Weapon,
		AI:             ai,
		InitiativeRoll: initiativeRoll,
		Tiebreaker:     tiebreaker,
	}, idGenerator)
}

// enrollment is the normalized input shared by both combatant constructors.
type enrollment struct {
	SourceID       string
	Name           string
	Type           CombatantType
	CurrentHealth  int
	MaxHealth      int
	ArmorClass     int
	AttackModifier int
	Weapon         Weapon
	AI             AIState
	InitiativeRoll int
	Tiebreaker     int
}

func newCombatant(input enrollment, idGenerator func() (string, error)) (*Combatant, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.SourceID = strings.TrimSpace(input.SourceID)
	if input.SourceID == "" {
		return nil, ErrEmptyCombatantID
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || utf8.RuneCountInString(input.Name) > maxCombatantNameLength {
		return nil, ErrInvalidCombatantName
	}
	if input.MaxHealth <= 0 || input.CurrentHealth <= 0 || input.CurrentHealth > input.MaxHealth {
		return nil, apperrors.WithMetadata(
			apperrors.CodeCombatantInvalidHealth,
			fmt.Sprintf("combatant %s needs positive health within its maximum", input.Name),
			map[string]string{"Name": input.Name},
		)
	}
	if input.ArmorClass < minArmorClass {
		return nil, apperrors.WithMetadata(
			apperrors.CodeCombatantInvalidArmor,
			fmt.Sprintf("combatant %s needs armor class of at least %d", input.Name, minArmorClass),
			map[string]string{"Name": input.Name},
		)
	}
	if input.InitiativeRoll < minInitiativeRoll || input.InitiativeRoll > maxInitiativeRoll {
		return nil, ErrInvalidInitiativeRoll
	}
	if !input.Weapon.IsZero() && !input.Weapon.Damage.Valid() {
		return nil, apperrors.New(
			apperrors.CodeDiceInvalidSpec,
			fmt.Sprintf("weapon %s has unrollable damage dice", input.Weapon.Name),
		)
	}

	combatantID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate combatant id: %w", err)
	}

	return &Combatant{
		ID:              combatantID,
		SourceID:        input.SourceID,
		Name:            input.Name,
		Type:            input.Type,
		CurrentHealth:   input.CurrentHealth,
		MaxHealth:       input.MaxHealth,
		ArmorClass:      input.ArmorClass,
		AttackModifier:  input.AttackModifier,
		Weapon:          input.Weapon,
		Status:          CombatantStatusActive,
		AI:              input.AI,
		InitiativeRoll:  input.InitiativeRoll,
		InitiativeScore: input.InitiativeRoll + input.AttackModifier,
		Tiebreaker:      input.Tiebreaker,
	}, nil
}

// IsActive reports whether the combatant can still act and be targeted.
func (c *Combatant) IsActive() bool {
	return c.Status == CombatantStatusActive
}

// HealthFraction reports remaining health as a fraction of maximum.
func (c *Combatant) HealthFraction() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return float64(c.CurrentHealth) / float64(c.MaxHealth)
}

// TakeDamage applies damage and reports health before and after. Health
// bottoms out at zero, which defeats the combatant. Damage against an
// already Defeated or Fled combatant is ignored, so there is no double kill
// and no resurrection path.
func (c *Combatant) TakeDamage(amount int) (before, after int) {
	before = c.CurrentHealth
	if c.Status != CombatantStatusActive || amount <= 0 {
		return before, before
	}
	after = before - amount
	if after < 0 {
		after = 0
	}
	c.CurrentHealth = after
	if after == 0 {
		c.Status = CombatantStatusDefeated
	}
	return before, after
}

// MarkFled removes the combatant from the fight regardless of remaining
// health.
func (c *Combatant) MarkFled() {
	c.Status = CombatantStatusFled
}

// RefreshAI recomputes the behavior state from current health. Characters
// never carry an AI state.
func (c *Combatant) RefreshAI(rules Rules) {
	if c.Type != CombatantTypeEnemy {
		return
	}
	c.AI = EvaluateAIState(c.CurrentHealth, c.MaxHealth, rules)
}

// AttackWeapon returns the weapon used for this combatant's attacks, falling
// back to the unarmed strike when nothing is equipped.
func (c *Combatant) AttackWeapon(rules Rules) Weapon {
	if c.Weapon.IsZero() {
		return rules.Unarmed
	}
	return c.Weapon
}
