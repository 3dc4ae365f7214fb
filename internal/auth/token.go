package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/roster-service/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// TokenSubject identifies the account a token is issued for. Exactly one of
// the role arms is set, matching the subject type.
type TokenSubject struct {
	ID          int64
	Type        domain.SubjectType
	AdminRole   *domain.AdminRole
	StaffRole   *domain.StaffRole
	FormationID *int64
}

// Claims describes the JWT payload.
type Claims struct {
	SubjectID   int64              `json:"sid"`
	Subject     domain.SubjectType `json:"subject"`
	AdminRole   *domain.AdminRole  `json:"admin_role,omitempty"`
	StaffRole   *domain.StaffRole  `json:"staff_role,omitempty"`
	FormationID *int64             `json:"formation_id,omitempty"`
	jwt.RegisteredClaims
}

// Generate builds and signs a JWT for the subject.
func (tm *TokenManager) Generate(sub TokenSubject) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		SubjectID:   sub.ID,
		Subject:     sub.Type,
		AdminRole:   sub.AdminRole,
		StaffRole:   sub.StaffRole,
		FormationID: sub.FormationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(sub.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
