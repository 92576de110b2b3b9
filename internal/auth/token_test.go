package auth

import (
	"context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "product-api")

	token, err := m.Issue("alice", time.Hour, RoleAdmin, RoleUser)
	require.NoError(t, err)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Subject)
	assert.Equal(t, []Role{RoleAdmin, RoleUser}, p.Roles)
}

func TestParseRejectsBadTokens(t *testing.T) {
	m := NewTokenManager("secret", "product-api")
	valid, err := m.Issue("bob", time.Hour, RoleUser)
	require.NoError(t, err)

	otherSecret, err := NewTokenManager("other", "product-api").Issue("bob", time.Hour, RoleUser)
	require.NoError(t, err)

	otherIssuer, err := NewTokenManager("secret", "someone-else").Issue("bob", time.Hour, RoleUser)
	require.NoError(t, err)

	expired, err := m.Issue("bob", -time.Minute, RoleUser)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Roles: []Role{RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "product-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   otherSecret,
		"wrong issuer":   otherIssuer,
		"expired":        expired,
		"none algorithm": none,
		"tampered":       valid + "x",
	}

	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseDropsUnknownRoles(t *testing.T) {
	m := NewTokenManager("secret", "product-api")
	token, err := m.Issue("carol", time.Hour, Role("role_admin"), Role("SUPERUSER"))
	require.NoError(t, err)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, []Role{RoleAdmin}, p.Roles)
}

func TestParseRole(t *testing.T) {
	testCases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"USER", RoleUser, false},
		{"admin", RoleAdmin, false},
		{"ROLE_ADMIN", RoleAdmin, false},
		{" user ", RoleUser, false},
		{"guest", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestPrincipalRoles(t *testing.T) {
	p := &Principal{Subject: "dave", Roles: []Role{RoleUser}}

	assert.True(t, p.HasAnyRole(RoleUser, RoleAdmin))
	assert.False(t, p.HasAnyRole(RoleAdmin))

	ctx := WithPrincipal(context.Background(), p)
	got, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, p, got)

	_, ok = PrincipalFromContext(context.Background())
	assert.False(t, ok)
}
