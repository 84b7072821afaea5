package domain

// Rules carries the tunable combat constants for an encounter.
type Rules struct {
	// FleeThreshold is the health fraction at or below which an enemy
	// looks for a way out.
	FleeThreshold float64
	// DefensiveThreshold is the health fraction below which an enemy
	// fights cautiously.
	DefensiveThreshold float64
	// AllowFlee permits desperate enemies to leave the fight. When escape
	// is disabled they fall back to defensive behavior instead.
	AllowFlee bool
	// Unarmed is the fallback weapon for combatants with nothing equipped.
	Unarmed Weapon
}

// DefaultRules returns the standard combat tuning.
func DefaultRules() Rules {
	return Rules{
		FleeThreshold:      0.25,
		DefensiveThreshold: 0.5,
		AllowFlee:          true,
		Unarmed: Weapon{
			Name:   "Unarmed Strike",
			Damage: DamageSpec{DiceCount: 1, DiceSides: 4},
		},
	}
}
