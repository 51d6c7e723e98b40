package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, secret string, ttl time.Duration) *TokenService {
	t.Helper()
	s, err := NewTokenService([]byte(secret), ttl)
	require.NoError(t, err)
	return s
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	s := newService(t, "super-secret", 0)

	tok, err := s.Issue("bob")
	require.NoError(t, err)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestIssue_ClaimsShape(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	s := newService(t, "k", 0)
	s.now = func() time.Time { return fixed }
	tok, err := s.Issue("alice")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "alice", payload["username"])
	assert.EqualValues(t, fixed.Unix(), payload["iat"])
	assert.NotContains(t, payload, "exp")

	s.ttl = time.Hour
	tok, err = s.Issue("alice")
	require.NoError(t, err)
	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestVerify_AlteredToken(t *testing.T) {
	t.Parallel()

	s := newService(t, "super-secret", 0)
	tok, err := s.Issue("bob")
	require.NoError(t, err)

	// flip one character of the signature
	b := []byte(tok)
	last := len(b) - 2
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}

	_, err = s.Verify(string(b))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newService(t, "right-secret", 0).Issue("u2")
	require.NoError(t, err)

	_, err = newService(t, "wrong-secret", 0).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newService(t, "secret", time.Minute)
	issued := time.Now()
	s.now = func() time.Time { return issued }
	tok, err := s.Issue("u1")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	s := newService(t, "secret", 0)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "bob"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Username: "bob"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.Verify(hs512)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_MissingUsername(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newService(t, "secret", 0).Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newService(t, "k", 0)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, tok)
	}
}

func TestNewTokenService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(nil, 0)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewTokenService([]byte("k"), -time.Second)
	assert.Error(t, err)
}
