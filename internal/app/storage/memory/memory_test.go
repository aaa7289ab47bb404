package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/calculation"
	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
)

func mustCreateUser(t *testing.T, s *Store, username string) user.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), user.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func TestUserLookups(t *testing.T) {
	s := New()
	created := mustCreateUser(t, s, "alice")

	byID, err := s.GetUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("got %q", byID.Username)
	}

	if _, err := s.GetUserByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if _, err := s.GetUserByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}

	for _, lookup := range []func() error{
		func() error { _, err := s.GetUser(context.Background(), "missing"); return err },
		func() error { _, err := s.GetUserByUsername(context.Background(), "missing"); return err },
		func() error { _, err := s.GetUserByEmail(context.Background(), "missing@example.com"); return err },
	} {
		if err := lookup(); !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("expected sql.ErrNoRows, got %v", err)
		}
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	s := New()
	mustCreateUser(t, s, "alice")

	if _, err := s.CreateUser(context.Background(), user.User{Username: "alice", Email: "x@example.com"}); err == nil {
		t.Fatal("duplicate username accepted")
	}
	if _, err := s.CreateUser(context.Background(), user.User{Username: "bob", Email: "alice@example.com"}); err == nil {
		t.Fatal("duplicate email accepted")
	}
}

func TestCreateRecordRequiresUser(t *testing.T) {
	s := New()

	_, err := s.CreateRecord(context.Background(), calculation.Record{
		UserID: "ghost", Kind: calculation.KindAddition, Expression: "1 + 1", Result: "2",
	})
	if err == nil {
		t.Fatal("record for unknown user accepted")
	}
}

func TestListRecordsOrderAndLimit(t *testing.T) {
	s := New()
	alice := mustCreateUser(t, s, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := calculation.Record{UserID: alice.ID, Kind: calculation.KindAddition, Expression: fmt.Sprintf("%d + 0", i), Result: fmt.Sprint(i)}
		created, err := s.CreateRecord(ctx, rec)
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
		// Force distinct timestamps so ordering is deterministic.
		created.CreatedAt = time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC)
		s.mu.Lock()
		s.records[created.ID] = created
		s.mu.Unlock()
	}

	items, err := s.ListRecords(ctx, alice.ID, calculation.Filter{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 records, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.After(items[i-1].CreatedAt) {
			t.Fatal("records not in newest-first order")
		}
	}

	limited, err := s.ListRecords(ctx, alice.ID, calculation.Filter{Limit: 2})
	if err != nil {
		t.Fatalf("ListRecords limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 records, got %d", len(limited))
	}
	if limited[0].Expression != "4 + 0" {
		t.Fatalf("expected newest record first, got %q", limited[0].Expression)
	}
}

func TestListRecordsTimeWindow(t *testing.T) {
	s := New()
	alice := mustCreateUser(t, s, "alice")
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		created, err := s.CreateRecord(ctx, calculation.Record{
			UserID: alice.ID, Kind: calculation.KindAddition, Expression: "1 + 1", Result: "2",
		})
		if err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
		created.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		s.mu.Lock()
		s.records[created.ID] = created
		s.mu.Unlock()
	}

	items, err := s.ListRecords(ctx, alice.ID, calculation.Filter{
		Start: base.Add(30 * time.Minute),
		End:   base.Add(90 * time.Minute),
	})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 record in window, got %d", len(items))
	}
}

func TestDeleteRecordsScoping(t *testing.T) {
	s := New()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	ctx := context.Background()

	mine, _ := s.CreateRecord(ctx, calculation.Record{UserID: alice.ID, Kind: calculation.KindAddition, Expression: "1 + 1", Result: "2"})
	theirs, _ := s.CreateRecord(ctx, calculation.Record{UserID: bob.ID, Kind: calculation.KindAddition, Expression: "2 + 2", Result: "4"})

	n, err := s.DeleteRecords(ctx, alice.ID, []string{mine.ID, theirs.ID, "missing"})
	if err != nil {
		t.Fatalf("DeleteRecords: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deletion, got %d", n)
	}
	if _, err := s.GetRecord(ctx, theirs.ID); err != nil {
		t.Fatalf("bob's record must survive: %v", err)
	}

	count, err := s.CountRecords(ctx, bob.ID)
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	n, err = s.DeleteRecords(ctx, bob.ID, nil)
	if err != nil {
		t.Fatalf("DeleteRecords all: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deletion, got %d", n)
	}
}
