package filter

import (
	"reflect"
	"testing"
)

func TestParseActionFilter(t *testing.T) {
	tests := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:   "empty filter",
			filter: "",
		},
		{
			name:       "attacker equality",
			filter:     `attacker_id = "cmb-1"`,
			wantClause: "attacker_id = ?",
			wantParams: []any{"cmb-1"},
		},
		{
			name:       "hits only",
			filter:     "hit = true",
			wantClause: "hit = ?",
			wantParams: []any{int64(1)},
		},
		{
			name:       "misses only",
			filter:     "hit = false",
			wantClause: "hit = ?",
			wantParams: []any{int64(0)},
		},
		{
			name:       "minimum damage",
			filter:     "damage >= 5",
			wantClause: "damage >= ?",
			wantParams: []any{int64(5)},
		},
		{
			name:       "critical hits on a target",
			filter:     `critical = true AND target_id = "cmb-2"`,
			wantClause: "(critical = ? AND target_id = ?)",
			wantParams: []any{int64(1), "cmb-2"},
		},
		{
			name:       "either side of a duel",
			filter:     `attacker_id = "cmb-1" OR attacker_id = "cmb-2"`,
			wantClause: "(attacker_id = ? OR attacker_id = ?)",
			wantParams: []any{"cmb-1", "cmb-2"},
		},
		{
			name:       "created after",
			filter:     `create_time > timestamp("2026-03-14T12:00:00Z")`,
			wantClause: "created_at > ?",
			wantParams: []any{int64(1773489600000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseActionFilter(tt.filter)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.filter, err)
			}
			if cond.Clause != tt.wantClause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tt.wantClause)
			}
			if !reflect.DeepEqual(cond.Params, tt.wantParams) {
				t.Fatalf("params = %#v, want %#v", cond.Params, tt.wantParams)
			}
		})
	}
}

func TestParseActionFilterRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{name: "unknown field", filter: `weapon = "Club"`},
		{name: "malformed expression", filter: `attacker_id = `},
		{name: "bad timestamp", filter: `create_time > timestamp("yesterday")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseActionFilter(tt.filter); err == nil {
				t.Fatalf("expected error for %q", tt.filter)
			}
		})
	}
}
