package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ineffable/agency-server/internal/model"
)

func init() {
	// iat and exp carry milliseconds so a token issued right after a
	// revocation orders after it.
	jwt.TimePrecision = time.Millisecond
}

var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims is the payload of a session token.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() model.Identity {
	identity := model.Identity{
		AccountID: c.Subject,
		Role:      c.Role,
	}
	if c.IssuedAt != nil {
		// Fractional seconds decode through a float64.
		identity.IssuedAt = c.IssuedAt.Time.Round(time.Millisecond)
	}
	return identity
}

// Service issues and verifies HS256 session tokens.
type Service struct {
	secret []byte
	issuer string
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(secret, issuer string, opts ...Option) *Service {
	s := &Service{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for identity that expires ttl from now.
func (s *Service) Issue(identity model.Identity, ttl time.Duration) (string, time.Time, error) {
	issuedAt := s.now().Truncate(time.Millisecond)
	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.AccountID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, issuer and expiry. It returns ErrExpired for an
// otherwise valid token past its lifetime and ErrInvalid for anything else.
func (s *Service) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalid
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpired
	}
	if err != nil {
		return nil, ErrInvalid
	}

	if claims.Subject == "" || !claims.Role.Valid() || claims.IssuedAt == nil {
		return nil, ErrInvalid
	}
	return claims, nil
}

func (s *Service) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return s.secret, nil
}
