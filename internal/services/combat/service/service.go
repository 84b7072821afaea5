package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/platform/id"
	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies combat service spans.
const tracerName = "github.com/emberhollow/adventure/internal/services/combat/service"

// Store is the persistence surface the service depends on: encounter state,
// the source catalog, and aggregate statistics.
type Store interface {
	storage.EncounterStore
	storage.SourceStore
	storage.StatisticsStore
}

// Service runs combat operations against a store and a dice provider.
//
// Every operation loads the encounter fresh, mutates it in memory, and saves
// it with the version it was loaded at. A concurrent writer loses the save
// with a version conflict and retries against the fresh state.
type Service struct {
	store  Store
	roller domain.Roller
	rules  domain.Rules
	tracer trace.Tracer

	now         func() time.Time
	idGenerator func() (string, error)
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithRules overrides the default combat tuning.
func WithRules(rules domain.Rules) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// WithClock overrides the time source used for encounter timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how encounter, combatant, and action IDs are
// generated.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(s *Service) {
		if generator != nil {
			s.idGenerator = generator
		}
	}
}

// New creates a combat service backed by the given store and dice roller.
func New(store Store, roller domain.Roller, opts ...Option) *Service {
	s := &Service{
		store:       store,
		roller:      roller,
		rules:       domain.DefaultRules(),
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ready guards operations on a partially constructed service.
func (s *Service) ready() error {
	if s == nil || s.store == nil || s.roller == nil {
		return fmt.Errorf("combat service is not configured")
	}
	return nil
}

// loadEncounter fetches the aggregate fresh for one operation.
func (s *Service) loadEncounter(ctx context.Context, encounterID string) (*domain.Encounter, error) {
	record, err := s.store.GetEncounter(ctx, encounterID)
	if err != nil {
		return nil, fmt.Errorf("encounter %s: %w", encounterID, err)
	}
	return record.ToDomain(), nil
}

// saveEncounter persists a mutated aggregate under the version it was loaded
// at, bumping the version exactly once and appending the operation's actions
// to the journal in the same transaction.
func (s *Service) saveEncounter(ctx context.Context, encounter *domain.Encounter, expectedVersion uint64) error {
	encounter.Version++
	encounter.UpdatedAt = s.now().UTC()
	actions := storage.ActionRecordsFromDomain(encounter.ID, encounter.History)
	if err := s.store.SaveEncounter(ctx, storage.EncounterRecordFromDomain(encounter), expectedVersion, actions); err != nil {
		if apperrors.IsCode(err, apperrors.CodeEncounterVersionConflict) {
			log.Printf("combat save conflict encounter=%s expected_version=%d", encounter.ID, expectedVersion)
		}
		return fmt.Errorf("save encounter %s: %w", encounter.ID, err)
	}
	return nil
}

// requireEncounterID trims and validates an encounter reference.
func requireEncounterID(encounterID string) (string, error) {
	encounterID = strings.TrimSpace(encounterID)
	if encounterID == "" {
		return "", apperrors.New(apperrors.CodeEncounterEmptyID, "encounter id is required")
	}
	return encounterID, nil
}
