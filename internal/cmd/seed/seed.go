// Package seed parses seed command flags and loads the starter roster into
// a combat database.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	entrypoint "github.com/emberhollow/adventure/internal/platform/cmd"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
	"github.com/emberhollow/adventure/internal/services/combat/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DB    string `env:"EMBERHOLLOW_SEED_DB" envDefault:"combat.db"`
	Reset bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DB, "db", cfg.DB, "path to the combat database")
	fs.BoolVar(&cfg.Reset, "reset", false, "delete the database before seeding")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the configured database with the starter roster.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		if cfg.Reset {
			if err := removeDatabase(cfg.DB); err != nil {
				return err
			}
		}
		store, err := sqlite.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer store.Close()
		return Load(ctx, store, out)
	})
}

// Load writes the starter roster through the store. Records that already
// exist under the same IDs are overwritten.
func Load(ctx context.Context, store storage.SourceStore, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	now := time.Now().UTC()

	weapons := StarterWeapons(now)
	for _, weapon := range weapons {
		if err := store.PutWeapon(ctx, weapon); err != nil {
			return fmt.Errorf("put weapon %s: %w", weapon.ID, err)
		}
	}
	characters := StarterCharacters(now)
	for _, character := range characters {
		if err := store.PutCharacter(ctx, character); err != nil {
			return fmt.Errorf("put character %s: %w", character.ID, err)
		}
	}
	enemies := StarterEnemies(now)
	for _, enemy := range enemies {
		if err := store.PutEnemy(ctx, enemy); err != nil {
			return fmt.Errorf("put enemy %s: %w", enemy.ID, err)
		}
	}

	fmt.Fprintf(out, "seeded %d weapons, %d characters, %d enemies\n", len(weapons), len(characters), len(enemies))
	return nil
}

// removeDatabase deletes the database file along with its WAL sidecars.
func removeDatabase(path string) error {
	for _, file := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", file, err)
		}
	}
	return nil
}
