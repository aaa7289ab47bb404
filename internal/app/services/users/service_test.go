package users

import (
	"context"
	"strings"
	"testing"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
	"github.com/MathHub-Labs/calc-service/internal/app/storage/memory"
	"github.com/MathHub-Labs/calc-service/internal/auth"
	"github.com/MathHub-Labs/calc-service/internal/config"
	"github.com/MathHub-Labs/calc-service/internal/errors"
)

func newTestService() *Service {
	store := memory.New()
	authSvc := auth.New(store, config.AuthConfig{
		Secret:          "test-secret",
		Algorithm:       "HS256",
		TokenTTLMinutes: 30,
		BcryptCost:      bcrypt.MinCost,
	}, nil)
	return New(store, authSvc, nil)
}

func TestRegister(t *testing.T) {
	svc := newTestService()

	created, err := svc.Register(context.Background(), "alice", "Alice@Example.com", "abc12345")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.PasswordHash == "" || created.PasswordHash == "abc12345" {
		t.Fatal("password must be stored hashed")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Username != "alice" {
		t.Fatalf("got username %q", got.Username)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newTestService()

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "abc12345"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "other@example.com", "abc12345")
	if svcErr := errors.GetServiceError(err); svcErr == nil || svcErr.Code != errors.CodeUsernameTaken {
		t.Fatalf("expected USERNAME_TAKEN, got %v", err)
	}

	_, err = svc.Register(context.Background(), "bob", "alice@example.com", "abc12345")
	if svcErr := errors.GetServiceError(err); svcErr == nil || svcErr.Code != errors.CodeEmailTaken {
		t.Fatalf("expected EMAIL_TAKEN, got %v", err)
	}

	// Email uniqueness is case-insensitive.
	_, err = svc.Register(context.Background(), "carol", "ALICE@example.com", "abc12345")
	if svcErr := errors.GetServiceError(err); svcErr == nil || svcErr.Code != errors.CodeEmailTaken {
		t.Fatalf("expected EMAIL_TAKEN for upper-case duplicate, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		code     errors.ErrorCode
	}{
		{"username too short", "ab", "a@b.com", "abc12345", errors.CodeInvalidInput},
		{"username too long", strings.Repeat("x", 51), "a@b.com", "abc12345", errors.CodeInvalidInput},
		{"email missing at", "alice", "alice.example.com", "abc12345", errors.CodeInvalidInput},
		{"email missing domain dot", "alice", "alice@localhost", "abc12345", errors.CodeInvalidInput},
		{"email empty local part", "alice", "@example.com", "abc12345", errors.CodeInvalidInput},
		{"password too short", "alice", "a@b.com", "ab1", errors.CodeWeakPassword},
		{"password all letters", "alice", "a@b.com", "abcdefgh", errors.CodeWeakPassword},
		{"password all digits", "alice", "a@b.com", "12345678", errors.CodeWeakPassword},
		{"password too long", "alice", "a@b.com", strings.Repeat("a1", 51), errors.CodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			svcErr := errors.GetServiceError(err)
			if svcErr == nil {
				t.Fatalf("expected error, got %v", err)
			}
			if svcErr.Code != tt.code {
				t.Fatalf("expected %s, got %s", tt.code, svcErr.Code)
			}
		})
	}
}

// conflictingUserStore simulates a concurrent registration that passes the
// uniqueness lookups but loses the race on the database constraint.
type conflictingUserStore struct {
	storage.UserStore
	constraint string
}

func (s *conflictingUserStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	return user.User{}, &pq.Error{Code: "23505", Constraint: s.constraint}
}

func TestRegisterConstraintRace(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		code       errors.ErrorCode
	}{
		{"email constraint", "users_email_key", errors.CodeEmailTaken},
		{"username constraint", "users_username_key", errors.CodeUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &conflictingUserStore{UserStore: memory.New(), constraint: tt.constraint}
			authSvc := auth.New(store, config.AuthConfig{
				Secret:          "test-secret",
				Algorithm:       "HS256",
				TokenTTLMinutes: 30,
				BcryptCost:      bcrypt.MinCost,
			}, nil)
			svc := New(store, authSvc, nil)

			_, err := svc.Register(context.Background(), "alice", "alice@example.com", "abc12345")
			svcErr := errors.GetServiceError(err)
			if svcErr == nil || svcErr.Code != tt.code {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "no-such-id")
	if svcErr := errors.GetServiceError(err); svcErr == nil || svcErr.Code != errors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
