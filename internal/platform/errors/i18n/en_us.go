package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeEncounterEmptyID                 = "ENCOUNTER_EMPTY_ID"
	CodeEncounterEmptyAdventureID        = "ENCOUNTER_EMPTY_ADVENTURE_ID"
	CodeEncounterNoCharacters            = "ENCOUNTER_NO_CHARACTERS"
	CodeEncounterNoEnemies               = "ENCOUNTER_NO_ENEMIES"
	CodeEncounterInvalidStatusTransition = "ENCOUNTER_INVALID_STATUS_TRANSITION"
	CodeEncounterStatusDisallowsOp       = "ENCOUNTER_STATUS_DISALLOWS_OPERATION"
	CodeEncounterNotYourTurn             = "ENCOUNTER_NOT_YOUR_TURN"
	CodeEncounterNoActiveCombatants      = "ENCOUNTER_NO_ACTIVE_COMBATANTS"
	CodeEncounterVersionConflict         = "ENCOUNTER_VERSION_CONFLICT"
	CodeCombatantEmptyID                 = "COMBATANT_EMPTY_ID"
	CodeCombatantDuplicateID             = "COMBATANT_DUPLICATE_ID"
	CodeCombatantInvalidName             = "COMBATANT_INVALID_NAME"
	CodeCombatantInvalidHealth           = "COMBATANT_INVALID_HEALTH"
	CodeCombatantInvalidArmor            = "COMBATANT_INVALID_ARMOR"
	CodeCombatantInvalidInitiative       = "COMBATANT_INVALID_INITIATIVE"
	CodeCombatantNotFound                = "COMBATANT_NOT_FOUND"
	CodeAttackInvalidTarget              = "ATTACK_INVALID_TARGET"
	CodeNotFound                         = "NOT_FOUND"
	CodeDiceMissing                      = "DICE_MISSING"
	CodeDiceInvalidSpec                  = "DICE_INVALID_SPEC"
	CodeDiceProviderFailure              = "DICE_PROVIDER_FAILURE"
	CodeActionFilterInvalid              = "ACTION_FILTER_INVALID"
	CodeActionCursorInvalid              = "ACTION_CURSOR_INVALID"
)

var enUSCatalog = NewCatalog("en-US", map[Code]string{
	// Encounter errors
	CodeEncounterEmptyID:                 "Encounter ID is required",
	CodeEncounterEmptyAdventureID:        "Adventure ID is required for an encounter",
	CodeEncounterNoCharacters:            "At least one character must join the encounter",
	CodeEncounterNoEnemies:               "At least one enemy must join the encounter",
	CodeEncounterInvalidStatusTransition: "Cannot move encounter from {{.FromStatus}} to {{.ToStatus}}",
	CodeEncounterStatusDisallowsOp:       "Encounter status {{.Status}} does not allow {{.Operation}}",
	CodeEncounterNotYourTurn:             "It is {{.ActiveName}}'s turn to act",
	CodeEncounterNoActiveCombatants:      "No combatant is able to act",
	CodeEncounterVersionConflict:         "The encounter changed while you acted. Try again",

	// Combatant errors
	CodeCombatantEmptyID:           "Combatant ID is required",
	CodeCombatantDuplicateID:       "Combatant {{.CombatantID}} already joined the encounter",
	CodeCombatantInvalidName:       "Combatant names must be between 1 and 100 characters",
	CodeCombatantInvalidHealth:     "{{.Name}} cannot enter combat without health remaining",
	CodeCombatantInvalidArmor:      "{{.Name}} needs an armor class of at least 10",
	CodeCombatantInvalidInitiative: "Initiative rolls must land between 1 and 20",
	CodeCombatantNotFound:          "Combatant {{.CombatantID}} is not part of this encounter",
	CodeAttackInvalidTarget:        "{{.TargetName}} cannot be targeted right now",

	// Storage errors
	CodeNotFound: "The requested resource was not found",

	// Dice/mechanics errors
	CodeDiceMissing:         "At least one die must be specified",
	CodeDiceInvalidSpec:     "Dice must have positive sides and count",
	CodeDiceProviderFailure: "The dice could not be rolled. Try again shortly",

	// Action history query errors
	CodeActionFilterInvalid: "The action history filter is invalid",
	CodeActionCursorInvalid: "The page token is invalid or expired",
})
