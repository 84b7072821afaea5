package seed

import (
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

// StarterWeapons returns the weapon catalog every new install begins with.
func StarterWeapons(now time.Time) []storage.WeaponRecord {
	return []storage.WeaponRecord{
		{ID: "wpn-longsword", Name: "Longsword", DiceCount: 1, DiceSides: 8, DamageModifier: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "wpn-shortbow", Name: "Shortbow", DiceCount: 1, DiceSides: 6, CreatedAt: now, UpdatedAt: now},
		{ID: "wpn-ember-staff", Name: "Ember Staff", DiceCount: 2, DiceSides: 4, DamageModifier: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "wpn-club", Name: "Club", DiceCount: 1, DiceSides: 4, CreatedAt: now, UpdatedAt: now},
		{ID: "wpn-fangs", Name: "Fangs", DiceCount: 1, DiceSides: 6, DamageModifier: 1, CreatedAt: now, UpdatedAt: now},
		{ID: "wpn-spark", Name: "Spark", DiceCount: 1, DiceSides: 4, DamageModifier: 1, CreatedAt: now, UpdatedAt: now},
	}
}

// StarterCharacters returns the playable party for the Ember Hollow demo
// adventure.
func StarterCharacters(now time.Time) []storage.CharacterRecord {
	return []storage.CharacterRecord{
		{ID: "chr-brasa", Name: "Brasa", MaxHealth: 22, ArmorClass: 15, AttackModifier: 4, WeaponID: "wpn-longsword", CreatedAt: now, UpdatedAt: now},
		{ID: "chr-milo", Name: "Milo", MaxHealth: 16, ArmorClass: 12, AttackModifier: 2, WeaponID: "wpn-shortbow", CreatedAt: now, UpdatedAt: now},
		{ID: "chr-yara", Name: "Yara", MaxHealth: 18, ArmorClass: 13, AttackModifier: 3, WeaponID: "wpn-ember-staff", CreatedAt: now, UpdatedAt: now},
	}
}

// StarterEnemies returns the opposition roster. Enemies start at full health
// and stay aggressive until wounded.
func StarterEnemies(now time.Time) []storage.EnemyRecord {
	return []storage.EnemyRecord{
		{ID: "enm-cinder-wolf", Name: "Cinder Wolf", MaxHealth: 11, CurrentHealth: 11, ArmorClass: 12, AttackModifier: 3, WeaponID: "wpn-fangs", AI: domain.AIStateAggressive, CreatedAt: now, UpdatedAt: now},
		{ID: "enm-ash-ghoul", Name: "Ash Ghoul", MaxHealth: 16, CurrentHealth: 16, ArmorClass: 13, AttackModifier: 2, WeaponID: "wpn-club", AI: domain.AIStateAggressive, CreatedAt: now, UpdatedAt: now},
		{ID: "enm-hollow-bandit", Name: "Hollow Bandit", MaxHealth: 12, CurrentHealth: 12, ArmorClass: 12, AttackModifier: 2, WeaponID: "wpn-club", AI: domain.AIStateAggressive, CreatedAt: now, UpdatedAt: now},
		{ID: "enm-ember-wisp", Name: "Ember Wisp", MaxHealth: 6, CurrentHealth: 6, ArmorClass: 14, AttackModifier: 1, WeaponID: "wpn-spark", AI: domain.AIStateAggressive, CreatedAt: now, UpdatedAt: now},
	}
}
