package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/platform/id"
)

// EncounterStatus identifies the encounter lifecycle label.
type EncounterStatus string

const (
	EncounterStatusUnspecified EncounterStatus = ""
	EncounterStatusNotStarted  EncounterStatus = "not_started"
	EncounterStatusActive      EncounterStatus = "active"
	EncounterStatusCompleted   EncounterStatus = "completed"
)

// Winner identifies the side that won a completed encounter.
type Winner string

const (
	WinnerNone    Winner = ""
	WinnerPlayers Winner = "players"
	WinnerEnemies Winner = "enemies"
	WinnerDraw    Winner = "draw"
)

var (
	// ErrEmptyAdventureID indicates a missing adventure reference.
	ErrEmptyAdventureID = apperrors.New(apperrors.CodeEncounterEmptyAdventureID, "adventure id is required")
	// ErrNoCharacters indicates a roster without a player side.
	ErrNoCharacters = apperrors.New(apperrors.CodeEncounterNoCharacters, "at least one character is required")
	// ErrNoEnemies indicates a roster without an enemy side.
	ErrNoEnemies = apperrors.New(apperrors.CodeEncounterNoEnemies, "at least one enemy is required")
	// ErrNoActiveCombatants indicates a turn pointer with nobody left to act.
	ErrNoActiveCombatants = apperrors.New(apperrors.CodeEncounterNoActiveCombatants, "no combatant is able to act")
)

// Encounter is the combat aggregate: one complete fight from initiation to a
// decisive outcome. Every operation loads it whole, mutates it, and saves it
// under an optimistic version check.
type Encounter struct {
	ID          string
	AdventureID string
	Status      EncounterStatus

	Combatants []*Combatant
	// Order is fixed by Begin and never re-sorted afterwards.
	Order     []InitiativeEntry
	Round     int
	TurnIndex int

	Winner Winner

	// History holds only the actions recorded by the current operation.
	// The persisted log is read through the action store, not the
	// aggregate.
	History []AttackAction

	// Version is the optimistic concurrency token. The service bumps it
	// exactly once per successful mutation before saving.
	Version uint64

	StartedAt time.Time
	EndedAt   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outcome reports whether combat has been decided and by whom.
type Outcome struct {
	Decided bool
	Winner  Winner
}

// NewEncounterInput describes the roster needed to create an encounter.
type NewEncounterInput struct {
	AdventureID string
	Combatants  []*Combatant
}

// NewEncounter validates the roster and produces a NotStarted encounter.
//
// The roster needs at least one combatant per side, every combatant must be
// able to fight, and IDs must be unique. Initiative is already rolled on
// each combatant; the turn order itself is fixed later by Begin.
func NewEncounter(input NewEncounterInput, now func() time.Time, idGenerator func() (string, error)) (*Encounter, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	adventureID := strings.TrimSpace(input.AdventureID)
	if adventureID == "" {
		return nil, ErrEmptyAdventureID
	}

	characters, enemies := 0, 0
	seen := make(map[string]bool, len(input.Combatants))
	for _, combatant := range input.Combatants {
		if combatant == nil || combatant.ID == "" {
			return nil, ErrEmptyCombatantID
		}
		if seen[combatant.ID] {
			return nil, apperrors.WithMetadata(
				apperrors.CodeCombatantDuplicateID,
				fmt.Sprintf("combatant %s enrolled twice", combatant.ID),
				map[string]string{"CombatantID": combatant.ID},
			)
		}
		seen[combatant.ID] = true
		if !combatant.IsActive() {
			return nil, apperrors.WithMetadata(
				apperrors.CodeCombatantInvalidHealth,
				fmt.Sprintf("combatant %s is %s and cannot start a fight", combatant.Name, combatant.Status),
				map[string]string{"Name": combatant.Name},
			)
		}
		switch combatant.Type {
		case CombatantTypeCharacter:
			characters++
		case CombatantTypeEnemy:
			enemies++
		}
	}
	if characters == 0 {
		return nil, ErrNoCharacters
	}
	if enemies == 0 {
		return nil, ErrNoEnemies
	}

	encounterID, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate encounter id: %w", err)
	}

	createdAt := now().UTC()
	return &Encounter{
		ID:          encounterID,
		AdventureID: adventureID,
		Status:      EncounterStatusNotStarted,
		Combatants:  input.Combatants,
		Version:     1,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// Begin fixes the initiative order and opens the first round.
func (e *Encounter) Begin(now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if e.Status != EncounterStatusNotStarted {
		return newStatusTransitionError(e.Status, EncounterStatusActive)
	}
	e.Order = BuildInitiativeOrder(e.Combatants)
	e.Status = EncounterStatusActive
	e.Round = 1
	e.TurnIndex = 0
	e.StartedAt = now().UTC()
	return nil
}

// ActiveCombatant returns the combatant whose turn it is, or nil when the
// encounter is not running.
func (e *Encounter) ActiveCombatant() *Combatant {
	if e.Status != EncounterStatusActive {
		return nil
	}
	if e.TurnIndex < 0 || e.TurnIndex >= len(e.Order) {
		return nil
	}
	return e.CombatantByID(e.Order[e.TurnIndex].CombatantID)
}

// CombatantByID returns the roster entry with the given ID, or nil.
func (e *Encounter) CombatantByID(combatantID string) *Combatant {
	for _, combatant := range e.Combatants {
		if combatant.ID == combatantID {
			return combatant
		}
	}
	return nil
}

// AdvanceTurn moves the pointer to the next combatant still able to act,
// skipping defeated and fled entries without consuming a turn. Passing the
// end of the order starts a new round.
func (e *Encounter) AdvanceTurn() error {
	if err := e.ValidateOperation(OpResolve); err != nil {
		return err
	}
	if !e.hasActiveCombatant() {
		return ErrNoActiveCombatants
	}
	for {
		e.TurnIndex++
		if e.TurnIndex >= len(e.Order) {
			e.TurnIndex = 0
			e.Round++
		}
		combatant := e.CombatantByID(e.Order[e.TurnIndex].CombatantID)
		if combatant != nil && combatant.IsActive() {
			return nil
		}
	}
}

// MarkFled removes a combatant from the fight. Fleeing records no action;
// callers still check for combat end afterwards since an emptied side
// decides the fight.
func (e *Encounter) MarkFled(combatantID string) error {
	if err := e.ValidateOperation(OpResolve); err != nil {
		return err
	}
	combatant := e.CombatantByID(combatantID)
	if combatant == nil {
		return newCombatantNotFoundError(combatantID)
	}
	if !combatant.IsActive() {
		return apperrors.WithMetadata(
			apperrors.CodeAttackInvalidTarget,
			fmt.Sprintf("combatant %s can no longer act", combatant.Name),
			map[string]string{"TargetName": combatant.Name},
		)
	}
	combatant.MarkFled()
	return nil
}

// CheckEnd counts active combatants per side and reports a decisive outcome.
// It never mutates the encounter: a side with nobody left to fight loses,
// and both sides emptying in the same resolution is a draw.
func (e *Encounter) CheckEnd() Outcome {
	characters, enemies := 0, 0
	for _, combatant := range e.Combatants {
		if !combatant.IsActive() {
			continue
		}
		switch combatant.Type {
		case CombatantTypeCharacter:
			characters++
		case CombatantTypeEnemy:
			enemies++
		}
	}
	switch {
	case characters == 0 && enemies == 0:
		return Outcome{Decided: true, Winner: WinnerDraw}
	case enemies == 0:
		return Outcome{Decided: true, Winner: WinnerPlayers}
	case characters == 0:
		return Outcome{Decided: true, Winner: WinnerEnemies}
	default:
		return Outcome{}
	}
}

// End completes the encounter with the given winner.
func (e *Encounter) End(winner Winner, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	if e.Status == EncounterStatusCompleted {
		return newStatusTransitionError(e.Status, EncounterStatusCompleted)
	}
	e.Status = EncounterStatusCompleted
	e.Winner = winner
	e.EndedAt = now().UTC()
	return nil
}

// FinishIfDecided applies CheckEnd and completes the encounter when a side
// has been emptied. It reports whether combat ended.
func (e *Encounter) FinishIfDecided(now func() time.Time) (bool, error) {
	outcome := e.CheckEnd()
	if !outcome.Decided {
		return false, nil
	}
	if err := e.End(outcome.Winner, now); err != nil {
		return false, err
	}
	return true, nil
}

// RecordAction appends a resolved action to the in-memory history.
func (e *Encounter) RecordAction(action AttackAction) {
	e.History = append(e.History, action)
}

func (e *Encounter) hasActiveCombatant() bool {
	for _, combatant := range e.Combatants {
		if combatant.IsActive() {
			return true
		}
	}
	return false
}

// newStatusTransitionError creates metadata for disallowed lifecycle moves.
func newStatusTransitionError(from, to EncounterStatus) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeEncounterInvalidStatusTransition,
		fmt.Sprintf("encounter status transition not allowed: %s -> %s", from, to),
		map[string]string{"FromStatus": string(from), "ToStatus": string(to)},
	)
}

// newStatusOpError creates metadata for disallowed status/operation
// combinations.
func newStatusOpError(status EncounterStatus, operation string) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeEncounterStatusDisallowsOp,
		fmt.Sprintf("encounter status %s does not allow %s", status, operation),
		map[string]string{"Status": string(status), "Operation": operation},
	)
}

// newCombatantNotFoundError creates metadata for roster misses.
func newCombatantNotFoundError(combatantID string) *apperrors.Error {
	return apperrors.WithMetadata(
		apperrors.CodeCombatantNotFound,
		fmt.Sprintf("combatant %s is not part of this encounter", combatantID),
		map[string]string{"CombatantID": combatantID},
	)
}
