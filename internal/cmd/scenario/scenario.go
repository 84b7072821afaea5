// Package scenario parses scenario command flags and plays Lua-scripted
// encounters against a local combat database.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/emberhollow/adventure/internal/core/dice"
	entrypoint "github.com/emberhollow/adventure/internal/platform/cmd"
	"github.com/emberhollow/adventure/internal/random"
	"github.com/emberhollow/adventure/internal/services/combat/service"
	"github.com/emberhollow/adventure/internal/services/combat/storage/sqlite"
	"github.com/emberhollow/adventure/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	DB     string `env:"EMBERHOLLOW_SCENARIO_DB" envDefault:"combat.db"`
	Seed   int64
	Strict bool
	// Scripts are the positional scenario files, played in order.
	Scripts []string
}

// ParseConfig parses environment and flags into a Config. Arguments left
// after the flags are the scenario scripts to play.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DB, "db", cfg.DB, "path to the combat database")
	fs.Int64Var(&cfg.Seed, "seed", 0, "dice seed for reproducible playthroughs (0 = random)")
	fs.BoolVar(&cfg.Strict, "strict", false, "abort on the first failed expectation")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Scripts = fs.Args()
	return cfg, nil
}

// Run plays every configured script against the configured database.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if len(cfg.Scripts) == 0 {
		return errors.New("no scenario scripts given")
	}
	if out == nil {
		out = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer store.Close()

		seed := cfg.Seed
		if seed == 0 {
			seed, err = random.NewSeed()
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "dice seed %d\n", seed)

		runner, err := scenario.NewRunner(scenario.RunnerConfig{
			Service: service.New(store, dice.NewSource(seed)),
			Out:     out,
			Strict:  cfg.Strict,
		})
		if err != nil {
			return err
		}
		for _, script := range cfg.Scripts {
			scn, err := scenario.Load(script)
			if err != nil {
				return fmt.Errorf("load %s: %w", script, err)
			}
			if err := runner.Run(ctx, scn); err != nil {
				return err
			}
		}
		return nil
	})
}
