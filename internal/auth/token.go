package auth

import (
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload understood by the API
type Claims struct {
	Roles []Role `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for subject holding roles, valid for ttl
func (m *TokenManager) Issue(subject string, ttl time.Duration, roles ...Role) (string, error) {
	now := m.now()
	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies tokenString and returns its principal
func (m *TokenManager) Parse(tokenString string) (*Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	roles := make([]Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		role, err := ParseRole(string(r))
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}

	return &Principal{Subject: claims.Subject, Roles: roles}, nil
}
