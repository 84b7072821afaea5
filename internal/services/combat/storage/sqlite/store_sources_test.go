package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
)

func TestSourceCatalogRoundTrips(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	weapon := storage.WeaponRecord{
		ID: "wpn-1", Name: "Shortbow", DiceCount: 1, DiceSides: 8,
		CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
	}
	if err := store.PutWeapon(ctx, weapon); err != nil {
		t.Fatalf("put weapon: %v", err)
	}

	character := storage.CharacterRecord{
		ID: "char-1", Name: "Wren", MaxHealth: 20, ArmorClass: 14, AttackModifier: 3,
		WeaponID: "wpn-1", CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
	}
	if err := store.PutCharacter(ctx, character); err != nil {
		t.Fatalf("put character: %v", err)
	}

	enemy := storage.EnemyRecord{
		ID: "enemy-1", Name: "Gnarl", MaxHealth: 12, CurrentHealth: 7, ArmorClass: 11,
		AttackModifier: 1, WeaponID: "wpn-1", AI: domain.AIStateDefensive,
		CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
	}
	if err := store.PutEnemy(ctx, enemy); err != nil {
		t.Fatalf("put enemy: %v", err)
	}

	gotWeapon, err := store.GetWeapon(ctx, "wpn-1")
	if err != nil {
		t.Fatalf("get weapon: %v", err)
	}
	if gotWeapon.Name != "Shortbow" || gotWeapon.DiceSides != 8 {
		t.Fatalf("expected shortbow d8, got %+v", gotWeapon)
	}

	gotCharacter, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if gotCharacter.WeaponID != "wpn-1" || gotCharacter.MaxHealth != 20 {
		t.Fatalf("expected armed character, got %+v", gotCharacter)
	}

	gotEnemy, err := store.GetEnemy(ctx, "enemy-1")
	if err != nil {
		t.Fatalf("get enemy: %v", err)
	}
	if gotEnemy.CurrentHealth != 7 || gotEnemy.AI != domain.AIStateDefensive {
		t.Fatalf("expected wounded defensive enemy, got %+v", gotEnemy)
	}
}

func TestPutEnemyUpdatesCarriedState(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	enemy := storage.EnemyRecord{
		ID: "enemy-1", Name: "Gnarl", MaxHealth: 12, CurrentHealth: 12, ArmorClass: 11,
		CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
	}
	if err := store.PutEnemy(ctx, enemy); err != nil {
		t.Fatalf("put enemy: %v", err)
	}

	// After an encounter the survivor carries its wounds and mood forward.
	enemy.CurrentHealth = 3
	enemy.AI = domain.AIStateFlee
	enemy.UpdatedAt = testStoreTime.Add(time.Minute)
	if err := store.PutEnemy(ctx, enemy); err != nil {
		t.Fatalf("update enemy: %v", err)
	}

	got, err := store.GetEnemy(ctx, "enemy-1")
	if err != nil {
		t.Fatalf("get enemy: %v", err)
	}
	if got.CurrentHealth != 3 || got.AI != domain.AIStateFlee {
		t.Fatalf("expected carried state, got %+v", got)
	}
	if !got.CreatedAt.Equal(testStoreTime) {
		t.Fatalf("expected created_at untouched, got %v", got.CreatedAt)
	}
}

func TestListSourcesOrderedByName(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zasha", "Anya", "Milo"} {
		rec := storage.CharacterRecord{
			ID: "char-" + name, Name: name, MaxHealth: 10, ArmorClass: 10,
			CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
		}
		if err := store.PutCharacter(ctx, rec); err != nil {
			t.Fatalf("put character %s: %v", name, err)
		}
	}

	characters, err := store.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if len(characters) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(characters))
	}
	if characters[0].Name != "Anya" || characters[2].Name != "Zasha" {
		t.Fatalf("expected name order, got %q..%q", characters[0].Name, characters[2].Name)
	}

	enemies, err := store.ListEnemies(ctx)
	if err != nil {
		t.Fatalf("list enemies: %v", err)
	}
	if len(enemies) != 0 {
		t.Fatalf("expected empty enemy catalog, got %d", len(enemies))
	}
}

func TestSourceCatalogMissingRecords(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.GetCharacter(ctx, "char-missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for character, got %v", err)
	}
	if _, err := store.GetEnemy(ctx, "enemy-missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for enemy, got %v", err)
	}
	if _, err := store.GetWeapon(ctx, "wpn-missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for weapon, got %v", err)
	}
}

func TestPutWeaponRequiresDice(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	weapon := storage.WeaponRecord{
		ID: "wpn-1", Name: "Prop Sword", DiceCount: 0, DiceSides: 8,
		CreatedAt: testStoreTime, UpdatedAt: testStoreTime,
	}
	if err := store.PutWeapon(context.Background(), weapon); err == nil {
		t.Fatal("expected unrollable weapon rejected")
	}
}
