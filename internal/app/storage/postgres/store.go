// Package postgres implements the storage interfaces backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
)

// Store implements the storage interfaces over a database handle.
type Store struct {
	db *sql.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.HistoryStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(url string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (user.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return s.getUser(ctx, "username", username)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) getUser(ctx context.Context, column, value string) (user.User, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE %s = $1
	`, column), value)

	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// --- HistoryStore -----------------------------------------------------------

func (s *Store) CreateRecord(ctx context.Context, rec calculation.Record) (calculation.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculation_history (id, user_id, operation_type, expression, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.UserID, string(rec.Kind), rec.Expression, rec.Result, rec.CreatedAt)
	if err != nil {
		return calculation.Record{}, err
	}
	return rec, nil
}

func (s *Store) GetRecord(ctx context.Context, id string) (calculation.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, operation_type, expression, result, created_at
		FROM calculation_history
		WHERE id = $1
	`, id)

	var rec calculation.Record
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Expression, &rec.Result, &rec.CreatedAt); err != nil {
		return calculation.Record{}, err
	}
	return rec, nil
}

func (s *Store) ListRecords(ctx context.Context, userID string, f calculation.Filter) ([]calculation.Record, error) {
	var (
		conditions = []string{"user_id = $1"}
		args       = []interface{}{userID}
	)
	if f.Kind != "" {
		args = append(args, string(f.Kind))
		conditions = append(conditions, fmt.Sprintf("operation_type = $%d", len(args)))
	}
	if !f.Start.IsZero() {
		args = append(args, f.Start.UTC())
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if !f.End.IsZero() {
		args = append(args, f.End.UTC())
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	args = append(args, f.EffectiveLimit())

	query := fmt.Sprintf(`
		SELECT id, user_id, operation_type, expression, result, created_at
		FROM calculation_history
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d
	`, strings.Join(conditions, " AND "), len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []calculation.Record
	for rows.Next() {
		var rec calculation.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Expression, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (s *Store) DeleteRecords(ctx context.Context, userID string, ids []string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if ids == nil {
		result, err = s.db.ExecContext(ctx, `
			DELETE FROM calculation_history WHERE user_id = $1
		`, userID)
	} else {
		// Foreign or unknown ids simply fall outside the user_id predicate.
		result, err = s.db.ExecContext(ctx, `
			DELETE FROM calculation_history WHERE user_id = $1 AND id = ANY($2)
		`, userID, pq.Array(ids))
	}
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) CountRecords(ctx context.Context, userID string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM calculation_history WHERE user_id = $1
	`, userID)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
