// Package check implements the to-hit comparison used by attack resolution.
package check

// DieSides is the number of faces on the check die.
const DieSides = 20

// Natural d20 boundaries. A natural 1 always misses and a natural 20 always
// hits regardless of modifiers or armor class.
const (
	NaturalMiss = 1
	NaturalCrit = DieSides
)

// MeetsArmorClass returns true if total >= armorClass.
// Ties go to the attacker.
func MeetsArmorClass(total, armorClass int) bool {
	return total >= armorClass
}

// Margin calculates how far the attack total landed above or below the
// armor class. Positive values indicate a hit margin, negative a miss.
func Margin(total, armorClass int) int {
	return total - armorClass
}

// Attack represents the outcome of a to-hit check for one natural d20 roll.
type Attack struct {
	Total    int
	Hit      bool
	Critical bool
	Margin   int
}

// Against resolves a natural d20 roll plus modifier against an armor class.
func Against(natural, modifier, armorClass int) Attack {
	total := natural + modifier
	out := Attack{
		Total:  total,
		Margin: Margin(total, armorClass),
	}

	switch natural {
	case NaturalMiss:
		out.Hit = false
	case NaturalCrit:
		out.Hit = true
		out.Critical = true
	default:
		out.Hit = MeetsArmorClass(total, armorClass)
	}
	return out
}
