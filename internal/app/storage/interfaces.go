// Package storage defines the persistence interfaces consumed by the
// services. Implementations live in the postgres and memory subpackages.
package storage

import (
	"context"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
)

// UserStore persists user accounts. Missing rows surface as sql.ErrNoRows.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// HistoryStore persists calculation records. Records are append-only: there
// is deliberately no update method.
type HistoryStore interface {
	CreateRecord(ctx context.Context, rec calculation.Record) (calculation.Record, error)
	GetRecord(ctx context.Context, id string) (calculation.Record, error)
	// ListRecords returns the user's records newest first, narrowed by the
	// filter's conjunctive predicates and capped at its effective limit.
	ListRecords(ctx context.Context, userID string, f calculation.Filter) ([]calculation.Record, error)
	// DeleteRecords removes the user's records. A nil id set deletes all of
	// them; otherwise only ids owned by the user are deleted, and foreign or
	// unknown ids are silently excluded. Returns the number deleted.
	DeleteRecords(ctx context.Context, userID string, ids []string) (int64, error)
	CountRecords(ctx context.Context, userID string) (int64, error)
}
