// Package auth implements credential hashing, token minting, and token
// verification. The only shared state is the immutable signing secret passed
// in at construction; token verification performs no I/O.
package auth

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MathHub-Labs/calc-service/internal/app/domain/user"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
	"github.com/MathHub-Labs/calc-service/internal/config"
	"github.com/MathHub-Labs/calc-service/internal/errors"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

// Claims is the JWT payload attributing a request to a user.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Session is the outcome of a successful authentication.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	User        user.User
}

// Service issues and verifies tokens and checks credentials.
type Service struct {
	users      storage.UserStore
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	log        *logger.Logger
}

// New constructs the auth service from configuration.
func New(users storage.UserStore, cfg config.AuthConfig, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TokenTTL(),
		bcryptCost: cost,
		log:        log,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// HashPassword hashes a plaintext password with bcrypt.
func (s *Service) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return "", errors.Internal("failed to hash password", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
func (s *Service) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IssueToken mints a signed HS256 token for the user, expiring after the
// configured TTL.
func (s *Service) IssueToken(userID, username string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Internal("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// VerifyToken parses and validates a bearer token. It fails closed: any
// signature mismatch, malformed payload, or past expiry yields an invalid
// token error, never a partial identity.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.InvalidToken(nil).WithDetails("method", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.InvalidToken(err)
	}
	if !token.Valid {
		return nil, errors.InvalidToken(nil)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" || claims.Username == "" {
		return nil, errors.InvalidToken(nil)
	}
	return claims, nil
}

// Authenticate checks credentials for a username or email and mints a token
// on success. Unknown users and wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (Session, error) {
	identifier = strings.TrimSpace(identifier)

	u, err := s.users.GetUserByUsername(ctx, identifier)
	if err != nil {
		if !stderrors.Is(err, sql.ErrNoRows) {
			return Session{}, errors.Internal("user lookup failed", err)
		}
		u, err = s.users.GetUserByEmail(ctx, strings.ToLower(identifier))
		if err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return Session{}, errors.Unauthorized("")
			}
			return Session{}, errors.Internal("user lookup failed", err)
		}
	}

	if !s.VerifyPassword(password, u.PasswordHash) {
		return Session{}, errors.Unauthorized("")
	}

	token, _, err := s.IssueToken(u.ID, u.Username)
	if err != nil {
		return Session{}, err
	}

	s.log.WithField("user_id", u.ID).Info("user authenticated")
	return Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		User:        u,
	}, nil
}
