package combatfakes

import "github.com/emberhollow/adventure/internal/core/dice"

// Roller replays scripted dice results for deterministic combat tests.
type Roller struct {
	// DieRolls feeds RollDie results in order; when exhausted every roll
	// comes up 1.
	DieRolls []int
	// SpecRolls feeds RollSpec results in order; when exhausted every die
	// comes up 1.
	SpecRolls [][]int
	// Err fails every draw when set.
	Err error
	// Specs records each spec passed to RollSpec.
	Specs []dice.Spec

	dieIndex  int
	specIndex int
}

func (r *Roller) RollDie(_ int) (int, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	if r.dieIndex < len(r.DieRolls) {
		roll := r.DieRolls[r.dieIndex]
		r.dieIndex++
		return roll, nil
	}
	return 1, nil
}

func (r *Roller) RollSpec(spec dice.Spec) ([]int, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.Specs = append(r.Specs, spec)
	if r.specIndex < len(r.SpecRolls) {
		rolls := r.SpecRolls[r.specIndex]
		r.specIndex++
		return rolls, nil
	}
	rolls := make([]int, spec.Count)
	for i := range rolls {
		rolls[i] = 1
	}
	return rolls, nil
}
