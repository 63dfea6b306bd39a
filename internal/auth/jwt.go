package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GoMarket-Shop/GoMarket/internal/db/models"
	"github.com/GoMarket-Shop/GoMarket/internal/token"
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	// Kind distinguishes access from refresh tokens.
	Kind token.Kind `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is what the login and verify endpoints return.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// JWTManager signs, parses, and tracks session tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	tracker    *token.Service
}

// NewJWTManager creates a manager with the configured signing secret and
// per-kind lifetimes.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration, tracker *token.Service) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		tracker:    tracker,
	}
}

// Lifetime returns the configured lifetime for a token kind.
func (m *JWTManager) Lifetime(kind token.Kind) time.Duration {
	if kind == token.KindRefresh {
		return m.refreshTTL
	}

	return m.accessTTL
}

func (m *JWTManager) sign(userID uuid.UUID, kind token.Kind) (string, error) {
	now := time.Now()

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.Lifetime(kind))),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return signed, nil
}

// IssuePair signs a fresh access/refresh pair for the user and hands both to
// the tracker. Tracking is opportunistic: per the tracker's replace-or-skip
// rule a user with no previously tracked tokens gets none tracked now either.
func (m *JWTManager) IssuePair(ctx context.Context, user *models.User) (TokenPair, error) {
	access, err := m.sign(user.ID, token.KindAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.sign(user.ID, token.KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	if err = m.tracker.Track(ctx, user.ID, access, token.KindAccess, m.accessTTL); err != nil {
		return TokenPair{}, err
	}

	if err = m.tracker.Track(ctx, user.ID, refresh, token.KindRefresh, m.refreshTTL); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse validates a token string and returns its claims and the subject id.
func (m *JWTManager) Parse(tokenString string) (*Claims, uuid.UUID, error) {
	claims := new(Claims)

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, uuid.Nil, ErrInvalidToken
	}

	return claims, userID, nil
}

// Verify parses a token and enforces the tracked-set liveness rule: a
// well-signed token is rejected once a newer issuance has replaced it in the
// user's tracked set for that kind.
func (m *JWTManager) Verify(ctx context.Context, tokenString string, kind token.Kind) (uuid.UUID, error) {
	claims, userID, err := m.Parse(tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	if claims.Kind != kind {
		return uuid.Nil, ErrInvalidToken
	}

	live, err := m.tracker.IsLive(ctx, userID, kind, tokenString)
	if err != nil {
		return uuid.Nil, err
	}

	if !live {
		return uuid.Nil, ErrTokenSuperseded
	}

	return userID, nil
}
