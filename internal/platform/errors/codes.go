package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Encounter errors
	CodeEncounterEmptyID                 Code = "ENCOUNTER_EMPTY_ID"
	CodeEncounterEmptyAdventureID        Code = "ENCOUNTER_EMPTY_ADVENTURE_ID"
	CodeEncounterNoCharacters            Code = "ENCOUNTER_NO_CHARACTERS"
	CodeEncounterNoEnemies               Code = "ENCOUNTER_NO_ENEMIES"
	CodeEncounterInvalidStatusTransition Code = "ENCOUNTER_INVALID_STATUS_TRANSITION"
	CodeEncounterStatusDisallowsOp       Code = "ENCOUNTER_STATUS_DISALLOWS_OPERATION"
	CodeEncounterNotYourTurn             Code = "ENCOUNTER_NOT_YOUR_TURN"
	CodeEncounterNoActiveCombatants      Code = "ENCOUNTER_NO_ACTIVE_COMBATANTS"
	CodeEncounterVersionConflict         Code = "ENCOUNTER_VERSION_CONFLICT"

	// Combatant errors
	CodeCombatantEmptyID           Code = "COMBATANT_EMPTY_ID"
	CodeCombatantDuplicateID       Code = "COMBATANT_DUPLICATE_ID"
	CodeCombatantInvalidName       Code = "COMBATANT_INVALID_NAME"
	CodeCombatantInvalidHealth     Code = "COMBATANT_INVALID_HEALTH"
	CodeCombatantInvalidArmor      Code = "COMBATANT_INVALID_ARMOR"
	CodeCombatantInvalidInitiative Code = "COMBATANT_INVALID_INITIATIVE"
	CodeCombatantNotFound          Code = "COMBATANT_NOT_FOUND"
	CodeAttackInvalidTarget        Code = "ATTACK_INVALID_TARGET"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Dice/mechanics errors
	CodeDiceMissing         Code = "DICE_MISSING"
	CodeDiceInvalidSpec     Code = "DICE_INVALID_SPEC"
	CodeDiceProviderFailure Code = "DICE_PROVIDER_FAILURE"

	// Action history query errors
	CodeActionFilterInvalid Code = "ACTION_FILTER_INVALID"
	CodeActionCursorInvalid Code = "ACTION_CURSOR_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeEncounterEmptyID,
		CodeEncounterEmptyAdventureID,
		CodeEncounterNoCharacters,
		CodeEncounterNoEnemies,
		CodeCombatantEmptyID,
		CodeCombatantDuplicateID,
		CodeCombatantInvalidName,
		CodeCombatantInvalidHealth,
		CodeCombatantInvalidArmor,
		CodeCombatantInvalidInitiative,
		CodeDiceMissing,
		CodeDiceInvalidSpec,
		CodeActionFilterInvalid,
		CodeActionCursorInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeEncounterInvalidStatusTransition,
		CodeEncounterStatusDisallowsOp,
		CodeEncounterNotYourTurn,
		CodeEncounterNoActiveCombatants,
		CodeAttackInvalidTarget:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeCombatantNotFound:
		return codes.NotFound

	// Aborted - optimistic concurrency conflict, safe to retry
	case CodeEncounterVersionConflict:
		return codes.Aborted

	// Unavailable - dependent roll provider failed
	case CodeDiceProviderFailure:
		return codes.Unavailable

	default:
		return codes.Internal
	}
}
