package i18n

var ptBRCatalog = NewCatalog("pt-BR", map[Code]string{
	// Encounter errors
	CodeEncounterEmptyID:                 "O ID do encontro é obrigatório",
	CodeEncounterEmptyAdventureID:        "O ID da aventura é obrigatório para um encontro",
	CodeEncounterNoCharacters:            "Pelo menos um personagem deve entrar no encontro",
	CodeEncounterNoEnemies:               "Pelo menos um inimigo deve entrar no encontro",
	CodeEncounterInvalidStatusTransition: "Não é possível mover o encontro de {{.FromStatus}} para {{.ToStatus}}",
	CodeEncounterStatusDisallowsOp:       "O status {{.Status}} do encontro não permite {{.Operation}}",
	CodeEncounterNotYourTurn:             "É a vez de {{.ActiveName}} agir",
	CodeEncounterNoActiveCombatants:      "Nenhum combatente é capaz de agir",
	CodeEncounterVersionConflict:         "O encontro mudou enquanto você agia. Tente novamente",

	// Combatant errors
	CodeCombatantEmptyID:           "O ID do combatente é obrigatório",
	CodeCombatantDuplicateID:       "O combatente {{.CombatantID}} já entrou no encontro",
	CodeCombatantInvalidName:       "Os nomes de combatentes devem ter entre 1 e 100 caracteres",
	CodeCombatantInvalidHealth:     "{{.Name}} não pode entrar em combate sem vida restante",
	CodeCombatantInvalidArmor:      "{{.Name}} precisa de uma classe de armadura de pelo menos 10",
	CodeCombatantInvalidInitiative: "As rolagens de iniciativa devem ficar entre 1 e 20",
	CodeCombatantNotFound:          "O combatente {{.CombatantID}} não faz parte deste encontro",
	CodeAttackInvalidTarget:        "{{.TargetName}} não pode ser alvo agora",

	// Storage errors
	CodeNotFound: "O recurso solicitado não foi encontrado",

	// Dice/mechanics errors
	CodeDiceMissing:         "Pelo menos um dado deve ser especificado",
	CodeDiceInvalidSpec:     "Os dados devem ter lados e quantidade positivos",
	CodeDiceProviderFailure: "Não foi possível rolar os dados. Tente novamente em instantes",

	// Action history query errors
	CodeActionFilterInvalid: "O filtro do histórico de ações é inválido",
	CodeActionCursorInvalid: "O token de página é inválido ou expirou",
})
