package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"go.opentelemetry.io/otel/attribute"
)

// AttackResult reports one resolved player attack and the encounter state it
// produced.
type AttackResult struct {
	Encounter *domain.Encounter
	Action    domain.AttackAction
}

// EnemyTurnResult reports one resolved enemy turn.
type EnemyTurnResult struct {
	Encounter *domain.Encounter
	// ActorID is the enemy that took the turn.
	ActorID string
	// Action is set when the enemy attacked.
	Action *domain.AttackAction
	// Fled reports that the enemy abandoned the fight instead.
	Fled bool
}

// ResolveAttack resolves one player-driven attack by the active combatant.
//
// The active combatant must be a character; enemies act through
// ResolveEnemyTurn. On success the turn moves to the next combatant able to
// act, or the encounter completes when a side has been emptied.
func (s *Service) ResolveAttack(ctx context.Context, encounterID, attackerID, targetID string) (*AttackResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.ResolveAttack")
	defer span.End()

	encounterID, err := requireEncounterID(encounterID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("encounter.id", encounterID))
	attackerID = strings.TrimSpace(attackerID)
	targetID = strings.TrimSpace(targetID)
	if attackerID == "" || targetID == "" {
		return nil, apperrors.New(apperrors.CodeCombatantEmptyID, "attacker and target ids are required")
	}

	encounter, err := s.loadEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	expected := encounter.Version

	if err := encounter.ValidateOperation(domain.OpResolve); err != nil {
		return nil, err
	}
	active := encounter.ActiveCombatant()
	if active == nil {
		return nil, domain.ErrNoActiveCombatants
	}
	if active.Type != domain.CombatantTypeCharacter {
		return nil, notYourTurn(active)
	}

	action, err := encounter.ResolveAttack(attackerID, targetID, s.roller, s.rules, s.now, s.idGenerator)
	if err != nil {
		return nil, err
	}
	if err := s.concludeTurn(ctx, encounter, expected); err != nil {
		return nil, err
	}
	return &AttackResult{Encounter: encounter, Action: action}, nil
}

// ResolveEnemyTurn lets the behavior model play the active enemy's turn:
// attack its chosen target, or flee when desperate and escape is allowed.
func (s *Service) ResolveEnemyTurn(ctx context.Context, encounterID string) (*EnemyTurnResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.ResolveEnemyTurn")
	defer span.End()

	encounterID, err := requireEncounterID(encounterID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("encounter.id", encounterID))

	encounter, err := s.loadEncounter(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	expected := encounter.Version

	if err := encounter.ValidateOperation(domain.OpResolve); err != nil {
		return nil, err
	}
	active := encounter.ActiveCombatant()
	if active == nil {
		return nil, domain.ErrNoActiveCombatants
	}
	if active.Type != domain.CombatantTypeEnemy {
		return nil, notYourTurn(active)
	}

	decision, err := domain.DecideEnemyAction(encounter, active.ID, s.rules)
	if err != nil {
		return nil, err
	}

	result := &EnemyTurnResult{ActorID: active.ID}
	switch decision.Kind {
	case domain.EnemyActionFlee:
		if err := encounter.MarkFled(active.ID); err != nil {
			return nil, err
		}
		result.Fled = true
	case domain.EnemyActionAttack:
		action, err := encounter.ResolveAttack(active.ID, decision.TargetID, s.roller, s.rules, s.now, s.idGenerator)
		if err != nil {
			return nil, err
		}
		result.Action = &action
	default:
		return nil, fmt.Errorf("unknown enemy action %q", decision.Kind)
	}

	if err := s.concludeTurn(ctx, encounter, expected); err != nil {
		return nil, err
	}
	result.Encounter = encounter
	return result, nil
}

// concludeTurn completes the encounter when a side has been emptied, advances
// the turn pointer otherwise, and saves the aggregate.
func (s *Service) concludeTurn(ctx context.Context, encounter *domain.Encounter, expectedVersion uint64) error {
	ended, err := encounter.FinishIfDecided(s.now)
	if err != nil {
		return err
	}
	if !ended {
		if err := encounter.AdvanceTurn(); err != nil {
			return err
		}
	}
	if err := s.saveEncounter(ctx, encounter, expectedVersion); err != nil {
		return err
	}
	if ended {
		log.Printf("combat encounter completed encounter=%s winner=%s rounds=%d", encounter.ID, encounter.Winner, encounter.Round)
	}
	return nil
}

// notYourTurn reports an action attempted while another combatant holds the
// turn.
func notYourTurn(active *domain.Combatant) error {
	return apperrors.WithMetadata(
		apperrors.CodeEncounterNotYourTurn,
		fmt.Sprintf("it is %s's turn to act", active.Name),
		map[string]string{"ActiveName": active.Name},
	)
}
