package storage

import (
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
)

func toOptionalTime(value time.Time) *time.Time {
	if value.IsZero() {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func fromOptionalTime(value *time.Time) time.Time {
	if value == nil {
		return time.Time{}
	}
	return value.UTC()
}

// EncounterRecordFromDomain flattens an aggregate into its persisted shape.
// The in-memory action history is not included; callers pass it to
// SaveEncounter separately so the journal append stays explicit.
func EncounterRecordFromDomain(e *domain.Encounter) EncounterRecord {
	rec := EncounterRecord{
		ID:          e.ID,
		AdventureID: e.AdventureID,
		Status:      e.Status,
		Round:       e.Round,
		TurnIndex:   e.TurnIndex,
		Winner:      e.Winner,
		Version:     e.Version,
		StartedAt:   toOptionalTime(e.StartedAt),
		EndedAt:     toOptionalTime(e.EndedAt),
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
		Combatants:  make([]CombatantRecord, 0, len(e.Combatants)),
	}
	for position, combatant := range e.Combatants {
		rec.Combatants = append(rec.Combatants, CombatantRecordFromDomain(e.ID, position, combatant))
	}
	return rec
}

// ToDomain rebuilds the aggregate. Initiative order is derived from the
// persisted scores and tiebreakers, which never change after enrollment, so
// the rebuilt order is identical to the one fixed when combat began.
func (r EncounterRecord) ToDomain() *domain.Encounter {
	encounter := &domain.Encounter{
		ID:          r.ID,
		AdventureID: r.AdventureID,
		Status:      r.Status,
		Round:       r.Round,
		TurnIndex:   r.TurnIndex,
		Winner:      r.Winner,
		Version:     r.Version,
		StartedAt:   fromOptionalTime(r.StartedAt),
		EndedAt:     fromOptionalTime(r.EndedAt),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
		Combatants:  make([]*domain.Combatant, 0, len(r.Combatants)),
	}
	for _, combatant := range r.Combatants {
		encounter.Combatants = append(encounter.Combatants, combatant.ToDomain())
	}
	if encounter.Status != domain.EncounterStatusNotStarted {
		encounter.Order = domain.BuildInitiativeOrder(encounter.Combatants)
	}
	return encounter
}

// CombatantRecordFromDomain flattens one combatant into its persisted row.
func CombatantRecordFromDomain(encounterID string, position int, c *domain.Combatant) CombatantRecord {
	return CombatantRecord{
		EncounterID:     encounterID,
		ID:              c.ID,
		SourceID:        c.SourceID,
		Position:        position,
		Name:            c.Name,
		Type:            c.Type,
		CurrentHealth:   c.CurrentHealth,
		MaxHealth:       c.MaxHealth,
		ArmorClass:      c.ArmorClass,
		AttackModifier:  c.AttackModifier,
		WeaponName:      c.Weapon.Name,
		WeaponDiceCount: c.Weapon.Damage.DiceCount,
		WeaponDiceSides: c.Weapon.Damage.DiceSides,
		WeaponModifier:  c.Weapon.Damage.Modifier,
		Status:          c.Status,
		AI:              c.AI,
		InitiativeRoll:  c.InitiativeRoll,
		InitiativeScore: c.InitiativeScore,
		Tiebreaker:      c.Tiebreaker,
		LastAttackerID:  c.LastAttackerID,
	}
}

// ToDomain rebuilds one combatant from its persisted row.
func (r CombatantRecord) ToDomain() *domain.Combatant {
	return &domain.Combatant{
		ID:             r.ID,
		SourceID:       r.SourceID,
		Name:           r.Name,
		Type:           r.Type,
		CurrentHealth:  r.CurrentHealth,
		MaxHealth:      r.MaxHealth,
		ArmorClass:     r.ArmorClass,
		AttackModifier: r.AttackModifier,
		Weapon: domain.Weapon{
			Name: r.WeaponName,
			Damage: domain.DamageSpec{
				DiceCount: r.WeaponDiceCount,
				DiceSides: r.WeaponDiceSides,
				Modifier:  r.WeaponModifier,
			},
		},
		Status:          r.Status,
		AI:              r.AI,
		InitiativeRoll:  r.InitiativeRoll,
		InitiativeScore: r.InitiativeScore,
		Tiebreaker:      r.Tiebreaker,
		LastAttackerID:  r.LastAttackerID,
	}
}

// ActionRecordFromDomain flattens one journal entry. Seq stays zero; the
// store assigns it at append time.
func ActionRecordFromDomain(encounterID string, a domain.AttackAction) ActionRecord {
	return ActionRecord{
		EncounterID:       encounterID,
		ID:                a.ID,
		AttackerID:        a.AttackerID,
		TargetID:          a.TargetID,
		AttackRoll:        a.AttackRoll,
		AttackModifier:    a.AttackModifier,
		AttackTotal:       a.AttackTotal,
		TargetArmorClass:  a.TargetArmorClass,
		Hit:               a.Hit,
		Critical:          a.Critical,
		WeaponName:        a.WeaponName,
		DamageNotation:    a.DamageNotation,
		DamageRolls:       a.DamageRolls,
		DamageModifier:    a.DamageModifier,
		Damage:            a.Damage,
		TargetHealthAfter: a.TargetHealthAfter,
		CreatedAt:         a.CreatedAt.UTC(),
	}
}

// ActionRecordsFromDomain flattens the actions recorded during one operation.
func ActionRecordsFromDomain(encounterID string, actions []domain.AttackAction) []ActionRecord {
	if len(actions) == 0 {
		return nil
	}
	records := make([]ActionRecord, 0, len(actions))
	for _, action := range actions {
		records = append(records, ActionRecordFromDomain(encounterID, action))
	}
	return records
}

// ToDomain rebuilds one journal entry from its persisted row.
func (r ActionRecord) ToDomain() domain.AttackAction {
	return domain.AttackAction{
		ID:                r.ID,
		AttackerID:        r.AttackerID,
		TargetID:          r.TargetID,
		AttackRoll:        r.AttackRoll,
		AttackModifier:    r.AttackModifier,
		AttackTotal:       r.AttackTotal,
		TargetArmorClass:  r.TargetArmorClass,
		Hit:               r.Hit,
		Critical:          r.Critical,
		WeaponName:        r.WeaponName,
		DamageNotation:    r.DamageNotation,
		DamageRolls:       r.DamageRolls,
		DamageModifier:    r.DamageModifier,
		Damage:            r.Damage,
		TargetHealthAfter: r.TargetHealthAfter,
		CreatedAt:         r.CreatedAt,
	}
}

// Weapon rebuilds the domain weapon a catalog row describes.
func (r WeaponRecord) Weapon() domain.Weapon {
	return domain.Weapon{
		Name: r.Name,
		Damage: domain.DamageSpec{
			DiceCount: r.DiceCount,
			DiceSides: r.DiceSides,
			Modifier:  r.DamageModifier,
		},
	}
}

// Snapshot builds the enrollment view of a character with its resolved weapon.
func (r CharacterRecord) Snapshot(weapon domain.Weapon) domain.CharacterSnapshot {
	return domain.CharacterSnapshot{
		ID:             r.ID,
		Name:           r.Name,
		MaxHealth:      r.MaxHealth,
		ArmorClass:     r.ArmorClass,
		AttackModifier: r.AttackModifier,
		Weapon:         weapon,
	}
}

// Snapshot builds the enrollment view of an enemy with its resolved weapon.
func (r EnemyRecord) Snapshot(weapon domain.Weapon) domain.EnemySnapshot {
	return domain.EnemySnapshot{
		ID:             r.ID,
		Name:           r.Name,
		MaxHealth:      r.MaxHealth,
		CurrentHealth:  r.CurrentHealth,
		ArmorClass:     r.ArmorClass,
		AttackModifier: r.AttackModifier,
		Weapon:         weapon,
		AI:             r.AI,
	}
}
