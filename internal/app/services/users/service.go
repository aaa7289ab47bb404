// Package users handles account registration and lookup.
package users

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"unicode"

	"github.com/lib/pq"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
	"github.com/MathHub-Labs/calc-service/internal/auth"
	"github.com/MathHub-Labs/calc-service/internal/errors"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Service creates and resolves user accounts.
type Service struct {
	store storage.UserStore
	auth  *auth.Service
	log   *logger.Logger
}

// New constructs a user service.
func New(store storage.UserStore, authSvc *auth.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("users")
	}
	return &Service{store: store, auth: authSvc, log: log}
}

// Register validates and creates a new account. Usernames and emails are
// unique; the email is normalized to lower case.
func (s *Service) Register(ctx context.Context, username, email, password string) (user.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 || len(username) > 50 {
		return user.User{}, errors.InvalidInput("username must be 3-50 characters")
	}
	if !validEmail(email) {
		return user.User{}, errors.InvalidInput("invalid email format")
	}
	if err := checkPasswordPolicy(password); err != nil {
		return user.User{}, err
	}

	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return user.User{}, errors.UsernameTaken()
	} else if !stderrors.Is(err, sql.ErrNoRows) {
		return user.User{}, errors.Internal("user lookup failed", err)
	}
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return user.User{}, errors.EmailTaken()
	} else if !stderrors.Is(err, sql.ErrNoRows) {
		return user.User{}, errors.Internal("user lookup failed", err)
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return user.User{}, err
	}

	created, err := s.store.CreateUser(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// Concurrent registrations can slip past the lookups above and land
		// on the unique constraints instead.
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			if strings.Contains(pqErr.Constraint, "email") {
				return user.User{}, errors.EmailTaken()
			}
			return user.User{}, errors.UsernameTaken()
		}
		return user.User{}, errors.Internal("failed to create user", err)
	}

	s.log.WithField("user_id", created.ID).
		WithField("username", created.Username).
		Info("user registered")
	return created, nil
}

// Get resolves a user by id.
func (s *Service) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return user.User{}, errors.NotFound("user")
		}
		return user.User{}, errors.Internal("user lookup failed", err)
	}
	return u, nil
}

// checkPasswordPolicy enforces the registration password rules: at least 8
// characters, at most 100, with at least one letter and one digit.
func checkPasswordPolicy(password string) error {
	if len(password) < 8 {
		return errors.WeakPassword("password must be at least 8 characters")
	}
	if len(password) > 100 {
		return errors.WeakPassword("password must be at most 100 characters")
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasDigit {
		return errors.WeakPassword("password must contain at least one digit")
	}
	if !hasLetter {
		return errors.WeakPassword("password must contain at least one letter")
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".")
}
