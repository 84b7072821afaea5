package storage

import (
	"context"
	"time"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/services/combat/domain"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrVersionConflict indicates an optimistic save observed a stale encounter
// version. The write was discarded; callers reload and retry.
var ErrVersionConflict = apperrors.New(apperrors.CodeEncounterVersionConflict, "encounter was modified concurrently")

// EncounterRecord captures the persisted encounter aggregate minus its
// action journal, which is loaded separately through ListActionsPage.
type EncounterRecord struct {
	ID          string
	AdventureID string
	Status      domain.EncounterStatus
	Round       int
	TurnIndex   int
	Winner      domain.Winner
	Version     uint64
	StartedAt   *time.Time
	EndedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Combatants  []CombatantRecord
}

// CombatantRecord captures one enrolled combatant row. Position preserves
// roster join order so rebuilt aggregates iterate deterministically.
type CombatantRecord struct {
	EncounterID     string
	ID              string
	SourceID        string
	Position        int
	Name            string
	Type            domain.CombatantType
	CurrentHealth   int
	MaxHealth       int
	ArmorClass      int
	AttackModifier  int
	WeaponName      string
	WeaponDiceCount int
	WeaponDiceSides int
	WeaponModifier  int
	Status          domain.CombatantStatus
	AI              domain.AIState
	InitiativeRoll  int
	InitiativeScore int
	Tiebreaker      int
	LastAttackerID  string
}

// ActionRecord captures one journaled attack action. Seq is assigned by the
// store at append time and is strictly increasing per encounter.
type ActionRecord struct {
	EncounterID       string
	Seq               uint64
	ID                string
	AttackerID        string
	TargetID          string
	AttackRoll        int
	AttackModifier    int
	AttackTotal       int
	TargetArmorClass  int
	Hit               bool
	Critical          bool
	WeaponName        string
	DamageNotation    string
	DamageRolls       []int
	DamageModifier    int
	Damage            int
	TargetHealthAfter int
	CreatedAt         time.Time
}

// CharacterRecord captures one player character in the source catalog.
type CharacterRecord struct {
	ID             string
	Name           string
	MaxHealth      int
	ArmorClass     int
	AttackModifier int
	WeaponID       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EnemyRecord captures one enemy in the source catalog. CurrentHealth and AI
// carry over between encounters so a wounded enemy stays wounded.
type EnemyRecord struct {
	ID             string
	Name           string
	MaxHealth      int
	CurrentHealth  int
	ArmorClass     int
	AttackModifier int
	WeaponID       string
	AI             domain.AIState
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WeaponRecord captures one weapon in the source catalog.
type WeaponRecord struct {
	ID             string
	Name           string
	DiceCount      int
	DiceSides      int
	DamageModifier int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CombatStatistics contains aggregate counters used by dashboards and housekeeping.
type CombatStatistics struct {
	EncounterCount int64
	CompletedCount int64
	PlayerWins     int64
	EnemyWins      int64
	Draws          int64
	ActionCount    int64
}

// EncounterStore owns encounter aggregate persistence and the action journal.
type EncounterStore interface {
	// CreateEncounter inserts a new encounter with its combatant roster.
	CreateEncounter(ctx context.Context, rec EncounterRecord) error
	// GetEncounter retrieves an encounter and its roster by id.
	GetEncounter(ctx context.Context, id string) (EncounterRecord, error)
	// SaveEncounter persists an updated encounter only when the stored version
	// still equals expectedVersion, appending actions in the same transaction.
	// Returns ErrVersionConflict when the version check fails.
	SaveEncounter(ctx context.Context, rec EncounterRecord, expectedVersion uint64, actions []ActionRecord) error
	// ListActionsPage returns a paginated, filtered slice of the action journal.
	ListActionsPage(ctx context.Context, req ListActionsPageRequest) (ListActionsPageResult, error)
	// CountActions returns the total journal length for an encounter.
	CountActions(ctx context.Context, encounterID string) (int, error)
}

// SourceStore owns the character/enemy/weapon catalog encounters enroll from.
type SourceStore interface {
	PutCharacter(ctx context.Context, rec CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	// ListCharacters returns the full catalog ordered by name.
	ListCharacters(ctx context.Context) ([]CharacterRecord, error)

	PutEnemy(ctx context.Context, rec EnemyRecord) error
	GetEnemy(ctx context.Context, id string) (EnemyRecord, error)
	// ListEnemies returns the full catalog ordered by name.
	ListEnemies(ctx context.Context) ([]EnemyRecord, error)

	PutWeapon(ctx context.Context, rec WeaponRecord) error
	GetWeapon(ctx context.Context, id string) (WeaponRecord, error)
	// ListWeapons returns the full catalog ordered by name.
	ListWeapons(ctx context.Context) ([]WeaponRecord, error)
}

// StatisticsStore centralizes aggregate count queries for operational observability.
type StatisticsStore interface {
	// GetCombatStatistics returns aggregate counts.
	// When since is nil, counts are for all time.
	GetCombatStatistics(ctx context.Context, since *time.Time) (CombatStatistics, error)
}

// ListActionsPageRequest describes request filters for action history views.
type ListActionsPageRequest struct {
	// EncounterID scopes the query to a specific encounter (required).
	EncounterID string
	// PageSize is the maximum number of actions to return (default: 50, max: 200).
	PageSize int
	// CursorSeq is the sequence number to paginate from (0 for first page).
	CursorSeq uint64
	// CursorDir is the pagination direction ("fwd" = seq > cursor, "bwd" = seq < cursor).
	CursorDir string
	// CursorReverse indicates whether to temporarily reverse the sort order.
	// This is used for "previous page" navigation to fetch items nearest to the cursor.
	CursorReverse bool
	// Descending orders results by seq desc (newest first) when true.
	Descending bool
	// FilterClause is an optional SQL WHERE clause fragment.
	FilterClause string
	// FilterParams are the positional parameters for the filter clause.
	FilterParams []any
}

// ListActionsPageResult contains paginated action history for introspection tooling.
type ListActionsPageResult struct {
	// Actions are the journal rows matching the request.
	Actions []ActionRecord
	// HasNextPage indicates whether more results exist in the forward direction.
	HasNextPage bool
	// HasPrevPage indicates whether more results exist in the backward direction.
	HasPrevPage bool
	// TotalCount is the total number of actions matching the filter.
	TotalCount int
}

// Store is a composite interface for all persistence concerns the combat
// service uses.
type Store interface {
	EncounterStore
	SourceStore
	StatisticsStore
	Close() error
}
