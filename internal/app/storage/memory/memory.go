// Package memory provides an in-memory implementation of the storage
// interfaces. It is safe for concurrent use and is primarily intended for
// tests and local development.
package memory

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
)

// Store holds users and calculation records in maps.
type Store struct {
	mu      sync.RWMutex
	users   map[string]user.User
	byName  map[string]string
	byEmail map[string]string
	records map[string]calculation.Record
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.HistoryStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]user.User),
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
		records: make(map[string]calculation.Record),
	}
}

// UserStore implementation ----------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[u.Username]; exists {
		return user.User{}, fmt.Errorf("username %q already exists", u.Username)
	}
	if _, exists := s.byEmail[u.Email]; exists {
		return user.User{}, fmt.Errorf("email %q already exists", u.Email)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	s.users[u.ID] = u
	s.byName[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return s.users[id], nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return user.User{}, sql.ErrNoRows
	}
	return s.users[id], nil
}

// HistoryStore implementation -------------------------------------------------

func (s *Store) CreateRecord(_ context.Context, rec calculation.Record) (calculation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Foreign-key discipline: records must reference an existing user.
	if _, ok := s.users[rec.UserID]; !ok {
		return calculation.Record{}, fmt.Errorf("user %q does not exist", rec.UserID)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = time.Now().UTC()

	s.records[rec.ID] = rec
	return rec, nil
}

func (s *Store) GetRecord(_ context.Context, id string) (calculation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return calculation.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (s *Store) ListRecords(_ context.Context, userID string, f calculation.Filter) ([]calculation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []calculation.Record
	for _, rec := range s.records {
		if rec.UserID != userID {
			continue
		}
		if f.Kind != "" && rec.Kind != f.Kind {
			continue
		}
		if !f.Start.IsZero() && rec.CreatedAt.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && rec.CreatedAt.After(f.End) {
			continue
		}
		result = append(result, rec)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit := f.EffectiveLimit(); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) DeleteRecords(_ context.Context, userID string, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	if ids == nil {
		for id, rec := range s.records {
			if rec.UserID == userID {
				delete(s.records, id)
				count++
			}
		}
		return count, nil
	}

	for _, id := range ids {
		rec, ok := s.records[id]
		if !ok || rec.UserID != userID {
			continue
		}
		delete(s.records, id)
		count++
	}
	return count, nil
}

func (s *Store) CountRecords(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, rec := range s.records {
		if rec.UserID == userID {
			count++
		}
	}
	return count, nil
}
