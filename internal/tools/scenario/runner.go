package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/service"
)

// Runner plays a loaded scenario against an in-process combat service and
// narrates each step to its writer.
type Runner struct {
	svc    *service.Service
	out    io.Writer
	strict bool
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Service *service.Service
	// Out receives the playthrough narration; defaults to io.Discard.
	Out io.Writer
	// Strict aborts the run on the first failed expectation instead of
	// logging it and continuing.
	Strict bool
}

// NewRunner builds a Runner over an initialized combat service.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Service == nil {
		return nil, errors.New("scenario runner requires a combat service")
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &Runner{svc: cfg.Service, out: out, strict: cfg.Strict}, nil
}

type runState struct {
	encounter *domain.Encounter
	// names maps display names to combatant IDs; the first combatant to
	// claim a name keeps it.
	names map[string]string
}

// Run executes every step in order. The first failing step aborts the run
// with the step's position and kind wrapped into the error.
func (r *Runner) Run(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is nil")
	}
	state := &runState{names: map[string]string{}}
	fmt.Fprintf(r.out, "== %s ==\n", scenario.Name)
	for index, step := range scenario.Steps {
		if err := r.runStep(ctx, state, step); err != nil {
			return fmt.Errorf("%s step %d (%s): %w", scenario.Name, index+1, step.Kind, err)
		}
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, state *runState, step Step) error {
	switch step.Kind {
	case "create":
		return r.runCreate(ctx, state, step)
	case "start":
		return r.runStart(ctx, state)
	case "attack":
		return r.runAttack(ctx, state, step)
	case "enemy_turn":
		return r.runEnemyTurn(ctx, state)
	case "expect":
		return r.runExpect(ctx, state, step)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runCreate(ctx context.Context, state *runState, step Step) error {
	if state.encounter != nil {
		return errors.New("encounter already created")
	}
	adventureID := optionalString(step.Args, "adventure", "adv-scenario")
	characters := readStringSlice(step.Args, "characters")
	enemies := readStringSlice(step.Args, "enemies")

	encounter, err := r.svc.CreateEncounter(ctx, adventureID, characters, enemies)
	if err != nil {
		return err
	}
	state.encounter = encounter

	partySize := 0
	enemyCount := 0
	for _, combatant := range encounter.Combatants {
		if _, taken := state.names[combatant.Name]; !taken {
			state.names[combatant.Name] = combatant.ID
		}
		switch combatant.Type {
		case domain.CombatantTypeCharacter:
			partySize++
		case domain.CombatantTypeEnemy:
			enemyCount++
		}
	}
	fmt.Fprintf(r.out, "encounter %s: %d characters face %d enemies\n", encounter.ID, partySize, enemyCount)
	return nil
}

func (r *Runner) runStart(ctx context.Context, state *runState) error {
	if state.encounter == nil {
		return errors.New("start before create")
	}
	encounter, err := r.svc.StartEncounter(ctx, state.encounter.ID)
	if err != nil {
		return err
	}
	state.encounter = encounter
	if active := encounter.ActiveCombatant(); active != nil {
		fmt.Fprintf(r.out, "round %d: %s acts first\n", encounter.Round, active.Name)
	}
	return nil
}

func (r *Runner) runAttack(ctx context.Context, state *runState, step Step) error {
	if state.encounter == nil {
		return errors.New("attack before create")
	}
	attacker := requiredString(step.Args, "attacker")
	if attacker == "" {
		return errors.New("attack requires an attacker")
	}
	target := requiredString(step.Args, "target")
	if target == "" {
		return errors.New("attack requires a target")
	}

	result, err := r.svc.ResolveAttack(ctx, state.encounter.ID, state.combatantID(attacker), state.combatantID(target))
	if err != nil {
		return err
	}
	state.encounter = result.Encounter
	r.narrateAction(state, result.Action)
	r.narrateOutcome(state.encounter)
	return nil
}

func (r *Runner) runEnemyTurn(ctx context.Context, state *runState) error {
	if state.encounter == nil {
		return errors.New("enemy_turn before create")
	}
	result, err := r.svc.ResolveEnemyTurn(ctx, state.encounter.ID)
	if err != nil {
		return err
	}
	state.encounter = result.Encounter
	if result.Fled {
		fmt.Fprintf(r.out, "%s flees the battle\n", state.displayName(result.ActorID))
	} else if result.Action != nil {
		r.narrateAction(state, *result.Action)
	}
	r.narrateOutcome(state.encounter)
	return nil
}

func (r *Runner) runExpect(ctx context.Context, state *runState, step Step) error {
	if state.encounter == nil {
		return errors.New("expect before create")
	}
	encounter := state.encounter
	var mismatches []string

	if want := optionalString(step.Args, "status", ""); want != "" && string(encounter.Status) != want {
		mismatches = append(mismatches, fmt.Sprintf("status is %q, want %q", encounter.Status, want))
	}
	if want := optionalString(step.Args, "winner", ""); want != "" && string(encounter.Winner) != want {
		mismatches = append(mismatches, fmt.Sprintf("winner is %q, want %q", encounter.Winner, want))
	}
	if want, ok := readInt(step.Args, "round"); ok && encounter.Round != want {
		mismatches = append(mismatches, fmt.Sprintf("round is %d, want %d", encounter.Round, want))
	}
	if want := optionalString(step.Args, "turn", ""); want != "" {
		activeName := ""
		if active := encounter.ActiveCombatant(); active != nil {
			activeName = active.Name
		}
		if activeName != want {
			mismatches = append(mismatches, fmt.Sprintf("active combatant is %q, want %q", activeName, want))
		}
	}
	if health, ok := step.Args["health"].(map[string]any); ok {
		names := make([]string, 0, len(health))
		for name := range health {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			want, ok := toInt(health[name])
			if !ok {
				mismatches = append(mismatches, fmt.Sprintf("health for %s is not a number", name))
				continue
			}
			combatant := encounter.CombatantByID(state.combatantID(name))
			if combatant == nil {
				mismatches = append(mismatches, fmt.Sprintf("%s is not in the encounter", name))
				continue
			}
			if combatant.CurrentHealth != want {
				mismatches = append(mismatches, fmt.Sprintf("%s health is %d, want %d", name, combatant.CurrentHealth, want))
			}
		}
	}
	if want, ok := readInt(step.Args, "journal"); ok {
		page, err := r.svc.ListActions(ctx, service.ListActionsRequest{EncounterID: encounter.ID, PageSize: 1})
		if err != nil {
			return err
		}
		if page.TotalCount != want {
			mismatches = append(mismatches, fmt.Sprintf("journal has %d actions, want %d", page.TotalCount, want))
		}
	}

	if len(mismatches) == 0 {
		return nil
	}
	if r.strict {
		return errors.New(strings.Join(mismatches, "; "))
	}
	for _, mismatch := range mismatches {
		fmt.Fprintf(r.out, "expect: %s\n", mismatch)
	}
	return nil
}

func (r *Runner) narrateAction(state *runState, action domain.AttackAction) {
	attacker := state.displayName(action.AttackerID)
	target := state.displayName(action.TargetID)
	switch {
	case action.Critical:
		fmt.Fprintf(r.out, "%s crits %s with %s for %d damage (%d health left)\n", attacker, target, action.WeaponName, action.Damage, action.TargetHealthAfter)
	case action.Hit:
		fmt.Fprintf(r.out, "%s hits %s with %s for %d damage (%d health left)\n", attacker, target, action.WeaponName, action.Damage, action.TargetHealthAfter)
	default:
		fmt.Fprintf(r.out, "%s misses %s (%d against armor class %d)\n", attacker, target, action.AttackTotal, action.TargetArmorClass)
	}
}

func (r *Runner) narrateOutcome(encounter *domain.Encounter) {
	if encounter.Status != domain.EncounterStatusCompleted {
		return
	}
	switch encounter.Winner {
	case domain.WinnerPlayers:
		fmt.Fprintln(r.out, "combat over: the party prevails")
	case domain.WinnerEnemies:
		fmt.Fprintln(r.out, "combat over: the enemies prevail")
	case domain.WinnerDraw:
		fmt.Fprintln(r.out, "combat over: nobody left standing")
	}
}

// combatantID resolves a display name to the combatant ID recorded at
// creation; unrecognized names pass through as literal IDs.
func (s *runState) combatantID(name string) string {
	if id, ok := s.names[name]; ok {
		return id
	}
	return name
}

func (s *runState) displayName(combatantID string) string {
	if s.encounter != nil {
		if combatant := s.encounter.CombatantByID(combatantID); combatant != nil {
			return combatant.Name
		}
	}
	return combatantID
}

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return fallback
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	return toInt(value)
}

func toInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func readStringSlice(args map[string]any, key string) []string {
	value, ok := args[key]
	if !ok {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	results := make([]string, 0, len(list))
	for _, entry := range list {
		text, ok := entry.(string)
		if !ok {
			continue
		}
		trimmed := strings.TrimSpace(text)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
