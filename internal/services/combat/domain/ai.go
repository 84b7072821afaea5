package domain

// EnemyActionKind identifies what an enemy chose to do on its turn.
type EnemyActionKind string

const (
	EnemyActionAttack EnemyActionKind = "attack"
	EnemyActionFlee   EnemyActionKind = "flee"
)

// EnemyDecision is the outcome of the behavior model for one enemy turn.
type EnemyDecision struct {
	Kind     EnemyActionKind
	TargetID string
}

// EvaluateAIState derives an enemy's behavior from its remaining health.
// At or below the flee threshold the enemy looks for a way out, under the
// defensive threshold it turns cautious, and otherwise it presses the
// attack.
func EvaluateAIState(currentHealth, maxHealth int, rules Rules) AIState {
	if maxHealth <= 0 {
		return AIStateFlee
	}
	fraction := float64(currentHealth) / float64(maxHealth)
	switch {
	case fraction <= rules.FleeThreshold:
		return AIStateFlee
	case fraction < rules.DefensiveThreshold:
		return AIStateDefensive
	default:
		return AIStateAggressive
	}
}

// DecideEnemyAction chooses an enemy's action for the current turn without
// touching the encounter.
//
// A desperate enemy flees when escape is allowed; with escape disabled it
// fights defensively instead. A defensive enemy retaliates against whoever
// hit it last; when that attacker is gone it falls back to picking off the
// weakest opponent, the same rule an aggressive enemy always uses. Ties
// break toward the lowest combatant ID so the choice is reproducible.
func DecideEnemyAction(encounter *Encounter, enemyID string, rules Rules) (EnemyDecision, error) {
	enemy := encounter.CombatantByID(enemyID)
	if enemy == nil {
		return EnemyDecision{}, newCombatantNotFoundError(enemyID)
	}

	state := enemy.AI
	if state == AIStateNone {
		state = AIStateAggressive
	}
	if state == AIStateFlee {
		if rules.AllowFlee {
			return EnemyDecision{Kind: EnemyActionFlee}, nil
		}
		state = AIStateDefensive
	}
	if state == AIStateDefensive {
		last := encounter.CombatantByID(enemy.LastAttackerID)
		if last != nil && last.IsActive() && last.Type != enemy.Type {
			return EnemyDecision{Kind: EnemyActionAttack, TargetID: last.ID}, nil
		}
	}

	target := weakestOpponent(encounter, enemy)
	if target == nil {
		return EnemyDecision{}, ErrNoActiveCombatants
	}
	return EnemyDecision{Kind: EnemyActionAttack, TargetID: target.ID}, nil
}

// weakestOpponent picks the lowest-health active combatant on the other
// side, breaking health ties toward the lowest ID.
func weakestOpponent(encounter *Encounter, enemy *Combatant) *Combatant {
	var target *Combatant
	for _, candidate := range encounter.Combatants {
		if candidate.Type == enemy.Type || !candidate.IsActive() {
			continue
		}
		if target == nil ||
			candidate.CurrentHealth < target.CurrentHealth ||
			(candidate.CurrentHealth == target.CurrentHealth && candidate.ID < target.ID) {
			target = candidate
		}
	}
	return target
}
