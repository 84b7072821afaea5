package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/emberhollow/adventure/internal/platform/errors"
	"github.com/emberhollow/adventure/internal/platform/storage/cursor"
	"github.com/emberhollow/adventure/internal/services/combat/core/filter"
	"github.com/emberhollow/adventure/internal/services/combat/domain"
	"github.com/emberhollow/adventure/internal/services/combat/storage"
	"go.opentelemetry.io/otel/attribute"
)

// ListActionsRequest queries one page of an encounter's action journal.
type ListActionsRequest struct {
	EncounterID string
	// PageSize caps returned actions; zero applies the default.
	PageSize int
	// PageToken resumes from a previously returned token.
	PageToken string
	// Descending returns newest actions first.
	Descending bool
	// Filter is an AIP-160 expression over attacker_id, target_id, hit,
	// critical, damage, and create_time.
	Filter string
}

// ListActionsResult is one page of the action journal.
type ListActionsResult struct {
	Actions       []domain.AttackAction
	NextPageToken string
	PrevPageToken string
	TotalCount    int
}

// ListActions returns a filtered, paginated view of the append-only action
// journal. Page tokens bind to the encounter, the filter, and the sort order
// they were minted for and are rejected when any of those change.
func (s *Service) ListActions(ctx context.Context, req ListActionsRequest) (*ListActionsResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.ListActions")
	defer span.End()

	encounterID, err := requireEncounterID(req.EncounterID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("encounter.id", encounterID))

	if _, err := s.store.GetEncounter(ctx, encounterID); err != nil {
		return nil, fmt.Errorf("encounter %s: %w", encounterID, err)
	}

	filterStr := strings.TrimSpace(req.Filter)
	var filterClause string
	var filterParams []any
	if filterStr != "" {
		condition, err := filter.ParseActionFilter(filterStr)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeActionFilterInvalid, "invalid filter expression", err)
		}
		filterClause = condition.Clause
		filterParams = condition.Params
	}

	scope := filterStr + "|desc=" + strconv.FormatBool(req.Descending)

	var cursorSeq uint64
	var cursorDir string
	var cursorReverse bool
	if token := strings.TrimSpace(req.PageToken); token != "" {
		decoded, err := cursor.Decode(token)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeActionCursorInvalid, "invalid page token", err)
		}
		if err := cursor.ValidateScope(decoded, encounterID, scope); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeActionCursorInvalid, "invalid page token", err)
		}
		cursorSeq = decoded.Seq
		cursorDir = string(decoded.Dir)
		cursorReverse = decoded.Reverse
	}

	page, err := s.store.ListActionsPage(ctx, storage.ListActionsPageRequest{
		EncounterID:   encounterID,
		PageSize:      req.PageSize,
		CursorSeq:     cursorSeq,
		CursorDir:     cursorDir,
		CursorReverse: cursorReverse,
		Descending:    req.Descending,
		FilterClause:  filterClause,
		FilterParams:  filterParams,
	})
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	result := &ListActionsResult{
		Actions:    make([]domain.AttackAction, 0, len(page.Actions)),
		TotalCount: page.TotalCount,
	}
	for _, record := range page.Actions {
		result.Actions = append(result.Actions, record.ToDomain())
	}
	if len(page.Actions) > 0 {
		if page.HasNextPage {
			lastSeq := page.Actions[len(page.Actions)-1].Seq
			if token, err := cursor.Encode(cursor.NewNextPageCursor(lastSeq, req.Descending, encounterID, scope)); err == nil {
				result.NextPageToken = token
			}
		}
		if page.HasPrevPage {
			firstSeq := page.Actions[0].Seq
			if token, err := cursor.Encode(cursor.NewPrevPageCursor(firstSeq, req.Descending, encounterID, scope)); err == nil {
				result.PrevPageToken = token
			}
		}
	}
	return result, nil
}

// CombatStatistics returns aggregate encounter and journal counts, optionally
// restricted to rows created at or after since.
func (s *Service) CombatStatistics(ctx context.Context, since *time.Time) (storage.CombatStatistics, error) {
	if err := s.ready(); err != nil {
		return storage.CombatStatistics{}, err
	}
	ctx, span := s.tracer.Start(ctx, "combat.CombatStatistics")
	defer span.End()

	statistics, err := s.store.GetCombatStatistics(ctx, since)
	if err != nil {
		return storage.CombatStatistics{}, fmt.Errorf("combat statistics: %w", err)
	}
	return statistics, nil
}
