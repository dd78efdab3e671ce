// Package session handles login validation, token issuance and the single
// persisted dashboard session.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edakseva/grievance-server/internal/model"
	"github.com/edakseva/grievance-server/internal/store"
)

// Demo credential set for the official portal.
const (
	officialID       = "admin"
	officialPassword = "1245"
	officialName     = "Post Master"
	citizenName      = "Citizen User"

	citizenIDLength       = 10
	citizenPasswordLength = 8
)

// Claims is the JWT payload for an authenticated session.
type Claims struct {
	Role model.Role `json:"role"`
	Name string     `json:"name"`
	jwt.RegisteredClaims
}

// Manager validates credentials, signs tokens and persists the active session.
type Manager struct {
	store    store.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewManager(s store.Store, secret string) *Manager {
	return &Manager{store: s, secret: []byte(secret), tokenTTL: 24 * time.Hour}
}

// Login validates credentials for the given role, persists the session and
// returns it with a signed token. Validation failures return ErrForbidden.
func (m *Manager) Login(ctx context.Context, role model.Role, id, password string) (*model.UserSession, string, error) {
	sess, err := validate(role, id, password)
	if err != nil {
		return nil, "", err
	}
	if err := m.store.Sessions().Put(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("persist session: %w", err)
	}
	token, err := m.sign(sess)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return sess, token, nil
}

// Logout clears the persisted session.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Sessions().Clear(ctx)
}

// Current returns the persisted session, or model.ErrNotFound when logged out.
func (m *Manager) Current(ctx context.Context) (*model.UserSession, error) {
	return m.store.Sessions().Get(ctx)
}

func validate(role model.Role, id, password string) (*model.UserSession, error) {
	switch role {
	case model.RoleOfficial:
		if id != officialID || password != officialPassword {
			return nil, fmt.Errorf("%w: invalid official credentials", model.ErrForbidden)
		}
		return &model.UserSession{CustomerID: officialID, Role: model.RoleOfficial, Name: officialName}, nil

	case model.RoleCitizen:
		if len(id) != citizenIDLength || !allDigits(id) {
			return nil, fmt.Errorf("%w: customer ID must be a 10-digit number", model.ErrForbidden)
		}
		if len(password) != citizenPasswordLength {
			return nil, fmt.Errorf("%w: password must be exactly 8 characters", model.ErrForbidden)
		}
		return &model.UserSession{CustomerID: id, Role: model.RoleCitizen, Name: citizenName}, nil

	default:
		return nil, fmt.Errorf("%w: unknown role %q", model.ErrValidation, role)
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m *Manager) sign(sess *model.UserSession) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: sess.Role,
		Name: sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.CustomerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrForbidden, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", model.ErrForbidden)
	}
	return claims, nil
}
