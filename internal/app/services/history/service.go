// Package history is the append-only ledger of past calculations, scoped per
// user.
package history

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
	"github.com/MathHub-Labs/calc-service/internal/errors"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

// statsWindow bounds the recent records scanned for per-kind counts. It
// matches the list query ceiling.
const statsWindow = calculation.FilterMaxLimit

// DeleteRequest selects records for deletion: an explicit id set or
// everything the user owns.
type DeleteRequest struct {
	IDs       []string `json:"ids,omitempty"`
	DeleteAll bool     `json:"delete_all"`
}

// Service owns calculation record persistence.
type Service struct {
	store storage.HistoryStore
	log   *logger.Logger
}

// New constructs a history service.
func New(store storage.HistoryStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("history")
	}
	return &Service{store: store, log: log}
}

// Append records a successful calculation. It is only called after the
// engine has produced a result; failed computations are never recorded.
func (s *Service) Append(ctx context.Context, userID string, kind calculation.Kind, expression, result string) (calculation.Record, error) {
	rec, err := s.store.CreateRecord(ctx, calculation.Record{
		UserID:     userID,
		Kind:       kind,
		Expression: expression,
		Result:     result,
	})
	if err != nil {
		return calculation.Record{}, errors.Internal("failed to append history record", err)
	}

	s.log.WithField("user_id", userID).
		WithField("record_id", rec.ID).
		WithField("operation_type", string(kind)).
		Debug("history record appended")
	return rec, nil
}

// List returns the user's records newest first, narrowed by the filter.
func (s *Service) List(ctx context.Context, userID string, f calculation.Filter) ([]calculation.Record, error) {
	recs, err := s.store.ListRecords(ctx, userID, f)
	if err != nil {
		return nil, errors.Internal("failed to list history", err)
	}
	return recs, nil
}

// Get returns a record by id. Ownership is the caller's responsibility: the
// HTTP layer must compare the record's user id against the requester before
// exposing it.
func (s *Service) Get(ctx context.Context, recordID string) (calculation.Record, error) {
	rec, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return calculation.Record{}, errors.NotFound("history record")
		}
		return calculation.Record{}, errors.Internal("failed to load history record", err)
	}
	return rec, nil
}

// Delete removes records scoped to the user. Ids not owned by the user are
// silently excluded from the delete rather than reported.
func (s *Service) Delete(ctx context.Context, userID string, req DeleteRequest) (int64, error) {
	var (
		count int64
		err   error
	)
	switch {
	case req.DeleteAll:
		count, err = s.store.DeleteRecords(ctx, userID, nil)
	case len(req.IDs) > 0:
		count, err = s.store.DeleteRecords(ctx, userID, req.IDs)
	default:
		return 0, errors.InvalidInput("either provide ids or set delete_all to true")
	}
	if err != nil {
		return 0, errors.Internal("failed to delete history", err)
	}

	s.log.WithField("user_id", userID).
		WithField("count", count).
		Info("history records deleted")
	return count, nil
}

// Count returns the user's total number of records.
func (s *Service) Count(ctx context.Context, userID string) (int64, error) {
	count, err := s.store.CountRecords(ctx, userID)
	if err != nil {
		return 0, errors.Internal("failed to count history", err)
	}
	return count, nil
}

// Stats aggregates the user's ledger: the total count plus per-kind counts
// over a bounded recent window.
func (s *Service) Stats(ctx context.Context, userID string) (calculation.Stats, error) {
	total, err := s.Count(ctx, userID)
	if err != nil {
		return calculation.Stats{}, err
	}

	recent, err := s.store.ListRecords(ctx, userID, calculation.Filter{Limit: statsWindow})
	if err != nil {
		return calculation.Stats{}, errors.Internal("failed to load recent history", err)
	}

	counts := make(map[calculation.Kind]int64)
	for _, rec := range recent {
		counts[rec.Kind]++
	}

	return calculation.Stats{
		TotalCalculations:   total,
		OperationCounts:     counts,
		RecentActivityCount: len(recent),
	}, nil
}

// Export projects a list result into export rows with a 1-based index. It
// applies no filtering of its own; renderers must preserve the row order.
func (s *Service) Export(ctx context.Context, userID string, f calculation.Filter) ([]calculation.ExportRow, error) {
	recs, err := s.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	rows := make([]calculation.ExportRow, 0, len(recs))
	for i, rec := range recs {
		rows = append(rows, calculation.ExportRow{
			Index:      i + 1,
			Expression: rec.Expression,
			Result:     rec.Result,
			Kind:       rec.Kind,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return rows, nil
}
