package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/emberhollow/adventure/internal/core/check"
	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
	"go.opentelemetry.io/otel/attribute"
)

// CreateEncounter instantiates combatants from the source catalog and
// persists a NotStarted encounter.
//
// Characters enroll at full health; enemies enroll at the health and AI state
// their catalog entry carries, so a previously wounded enemy enters the fight
// already wounded. Initiative is rolled for everyone up front and the
// tiebreaker follows enrollment order, characters first.
func (s *Service) CreateEncounter(ctx context.Context, adventureID string, characterIDs, enemyIDs []string) (*domain.Encounter, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.CreateEncounter")
	defer span.End()

	adventureID = strings.TrimSpace(adventureID)
	if adventureID == "" {
		return nil, domain.ErrEmptyAdventureID
	}
	if len(characterIDs) == 0 {
		return nil, domain.ErrNoCharacters
	}
	if len(enemyIDs) == 0 {
		return nil, domain.ErrNoEnemies
	}
	span.SetAttributes(attribute.String("adventure.id", adventureID))

	combatants := make([]*domain.Combatant, 0, len(characterIDs)+len(enemyIDs))
	for _, characterID := range characterIDs {
		snapshot, err := s.characterSnapshot(ctx, characterID)
		if err != nil {
			return nil, err
		}
		roll, err := s.rollInitiative()
		if err != nil {
			return nil, err
		}
		combatant, err := domain.NewCombatantFromCharacter(snapshot, roll, len(combatants), s.idGenerator)
		if err != nil {
			return nil, err
		}
		combatants = append(combatants, combatant)
	}
	for _, enemyID := range enemyIDs {
		snapshot, err := s.enemySnapshot(ctx, enemyID)
		if err != nil {
			return nil, err
		}
		roll, err := s.rollInitiative()
		if err != nil {
			return nil, err
		}
		combatant, err := domain.NewCombatantFromEnemy(snapshot, roll, len(combatants), s.idGenerator)
		if err != nil {
			return nil, err
		}
		combatants = append(combatants, combatant)
	}

	encounter, err := domain.NewEncounter(domain.NewEncounterInput{
		AdventureID: adventureID,
		Combatants:  combatants,
	}, s.now, s.idGenerator)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEncounter(ctx, storage.EncounterRecordFromDomain(encounter)); err != nil {
		return nil, fmt.Errorf("create encounter %s: %w", encounter.ID, err)
	}
	log.Printf("combat encounter created encounter=%s adventure=%s combatants=%d", encounter.ID, adventureID, len(combatants))
	return encounter, nil
}

// StartEncounter fixes the initiative order and opens the first round.
func (s *Service) StartEncounter(ctx context.Context, encounterID string) (*domain.Encounter, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.StartEncounter")
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
	if err := encounter.Begin(s.now); err != nil {
		return nil, err
	}
	if err := s.saveEncounter(ctx, encounter, expected); err != nil {
		return nil, err
	}
	log.Printf("combat encounter started encounter=%s combatants=%d", encounter.ID, len(encounter.Combatants))
	return encounter, nil
}

// GetEncounter returns the current encounter state. The action journal is not
// hydrated; read it through ListActions.
func (s *Service) GetEncounter(ctx context.Context, encounterID string) (*domain.Encounter, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.GetEncounter")
	defer span.End()

	encounterID, err := requireEncounterID(encounterID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("encounter.id", encounterID))
	return s.loadEncounter(ctx, encounterID)
}

// characterSnapshot loads a character and its equipped weapon from the source
// catalog.
func (s *Service) characterSnapshot(ctx context.Context, characterID string) (domain.CharacterSnapshot, error) {
	record, err := s.store.GetCharacter(ctx, strings.TrimSpace(characterID))
	if err != nil {
		return domain.CharacterSnapshot{}, fmt.Errorf("character %s: %w", characterID, err)
	}
	weapon, err := s.weaponFor(ctx, record.WeaponID)
	if err != nil {
		return domain.CharacterSnapshot{}, fmt.Errorf("character %s: %w", characterID, err)
	}
	return record.Snapshot(weapon), nil
}

// enemySnapshot loads an enemy and its equipped weapon from the source
// catalog.
func (s *Service) enemySnapshot(ctx context.Context, enemyID string) (domain.EnemySnapshot, error) {
	record, err := s.store.GetEnemy(ctx, strings.TrimSpace(enemyID))
	if err != nil {
		return domain.EnemySnapshot{}, fmt.Errorf("enemy %s: %w", enemyID, err)
	}
	weapon, err := s.weaponFor(ctx, record.WeaponID)
	if err != nil {
		return domain.EnemySnapshot{}, fmt.Errorf("enemy %s: %w", enemyID, err)
	}
	return record.Snapshot(weapon), nil
}

// weaponFor resolves an optional weapon reference; an empty reference means
// the combatant fights unarmed.
func (s *Service) weaponFor(ctx context.Context, weaponID string) (domain.Weapon, error) {
	if strings.TrimSpace(weaponID) == "" {
		return domain.Weapon{}, nil
	}
	record, err := s.store.GetWeapon(ctx, weaponID)
	if err != nil {
		return domain.Weapon{}, fmt.Errorf("weapon %s: %w", weaponID, err)
	}
	return record.Weapon(), nil
}

// rollInitiative draws the d20 that fixes a combatant's place in the turn
// order.
func (s *Service) rollInitiative() (int, error) {
	roll, err := s.roller.RollDie(check.DieSides)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDiceProviderFailure, "dice provider failed", err)
	}
	return roll, nil
}
