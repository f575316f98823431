package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	token, expiresAt, err := m.Issue("  Ann@Example.com", "Ann")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := m.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id.Email)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	m, err := NewJWTManager("secret", time.Minute)
	require.NoError(t, err)
	token, _, err := m.Issue("a@x.com", "")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewJWTManager("other-secret", time.Minute)
	require.NoError(t, err)
	_, err = other.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Email: "a@x.com"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssueRequiresEmail(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	_, _, err = m.Issue("  ", "")
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestParseBearerToken(t *testing.T) {
	tok, err := ParseBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "abc", "Basic abc", "Bearer "} {
		_, err := ParseBearerToken(h)
		assert.Error(t, err, h)
	}
}

type fakeIDTokens struct {
	token *firebaseauth.Token
	err   error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*firebaseauth.Token, error) {
	return f.token, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	v := &FirebaseVerifier{client: fakeIDTokens{token: &firebaseauth.Token{
		UID:    "uid-1",
		Claims: map[string]interface{}{"email": "Member@X.com"},
	}}}
	id, err := v.Verify(context.Background(), "t")
	require.NoError(t, err)
	assert.Equal(t, "member@x.com", id.Email)
	assert.Equal(t, "uid-1", id.Subject)

	v = &FirebaseVerifier{client: fakeIDTokens{token: &firebaseauth.Token{Claims: map[string]interface{}{}}}}
	_, err = v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, ErrMissingEmail)

	v = &FirebaseVerifier{client: fakeIDTokens{err: errors.New("expired")}}
	_, err = v.Verify(context.Background(), "t")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
