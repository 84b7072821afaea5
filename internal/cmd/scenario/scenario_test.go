package scenario

import (
	"context"
	"flag"
	"testing"
)

func TestParseConfigFlagsAndScripts(t *testing.T) {
	t.Setenv("EMBERHOLLOW_SCENARIO_DB", "env.db")

	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-seed", "42", "-strict", "fight.lua", "rout.lua"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DB != "env.db" {
		t.Fatalf("db = %q, want env.db", cfg.DB)
	}
	if cfg.Seed != 42 {
		t.Fatalf("seed = %d, want 42", cfg.Seed)
	}
	if !cfg.Strict {
		t.Fatal("strict flag not applied")
	}
	if len(cfg.Scripts) != 2 || cfg.Scripts[0] != "fight.lua" || cfg.Scripts[1] != "rout.lua" {
		t.Fatalf("scripts = %v", cfg.Scripts)
	}

	fs = flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-db", "flag.db", "solo.lua"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DB != "flag.db" {
		t.Fatalf("db = %q, want flag.db", cfg.DB)
	}
	if cfg.Seed != 0 || cfg.Strict {
		t.Fatalf("cfg = %+v, want zero seed and non-strict", cfg)
	}
}

func TestRunRequiresScripts(t *testing.T) {
	err := Run(context.Background(), Config{DB: "combat.db"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}
