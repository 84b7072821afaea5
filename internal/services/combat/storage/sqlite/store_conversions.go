package sqlite

import (
	"strings"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
)

// Enum round-trips. Values persist as their lowercase wire form; unknown
// values collapse to the zero value.

func encounterStatusFromString(s string) domain.EncounterStatus {
	switch domain.EncounterStatus(strings.TrimSpace(s)) {
	case domain.EncounterStatusNotStarted:
		return domain.EncounterStatusNotStarted
	case domain.EncounterStatusActive:
		return domain.EncounterStatusActive
	case domain.EncounterStatusCompleted:
		return domain.EncounterStatusCompleted
	default:
		return domain.EncounterStatusUnspecified
	}
}

func winnerFromString(s string) domain.Winner {
	switch domain.Winner(strings.TrimSpace(s)) {
	case domain.WinnerPlayers:
		return domain.WinnerPlayers
	case domain.WinnerEnemies:
		return domain.WinnerEnemies
	case domain.WinnerDraw:
		return domain.WinnerDraw
	default:
		return domain.WinnerNone
	}
}

func combatantTypeFromString(s string) domain.CombatantType {
	switch domain.CombatantType(strings.TrimSpace(s)) {
	case domain.CombatantTypeCharacter:
		return domain.CombatantTypeCharacter
	case domain.CombatantTypeEnemy:
		return domain.CombatantTypeEnemy
	default:
		return domain.CombatantTypeUnspecified
	}
}

func combatantStatusFromString(s string) domain.CombatantStatus {
	switch domain.CombatantStatus(strings.TrimSpace(s)) {
	case domain.CombatantStatusActive:
		return domain.CombatantStatusActive
	case domain.CombatantStatusDefeated:
		return domain.CombatantStatusDefeated
	case domain.CombatantStatusFled:
		return domain.CombatantStatusFled
	default:
		return ""
	}
}

func aiStateFromString(s string) domain.AIState {
	switch domain.AIState(strings.TrimSpace(s)) {
	case domain.AIStateAggressive:
		return domain.AIStateAggressive
	case domain.AIStateDefensive:
		return domain.AIStateDefensive
	case domain.AIStateFlee:
		return domain.AIStateFlee
	default:
		return domain.AIStateNone
	}
}
