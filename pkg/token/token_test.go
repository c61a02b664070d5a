package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := New("test-secret", opts...)
	require.NoError(t, err)
	return svc
}

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newService(t, WithIssuer("taskflow"))

	tok, err := svc.Issue("user-1")
	require.NoError(t, err)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "taskflow", claims.Issuer)
	require.NotEmpty(t, claims.ID)
	require.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssue_SameClaimsDifferentTokens(t *testing.T) {
	svc := newService(t)

	first, err := svc.Issue("user-1")
	require.NoError(t, err)
	second, err := svc.Issue("user-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	a, err := svc.Verify(first)
	require.NoError(t, err)
	b, err := svc.Verify(second)
	require.NoError(t, err)
	require.Equal(t, a.UserID, b.UserID)
}

func TestIssue_RejectsEmptyUser(t *testing.T) {
	_, err := newService(t).Issue("")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedAtAnyPosition(t *testing.T) {
	svc := newService(t)
	tok, err := svc.Issue("user-a")
	require.NoError(t, err)

	for i := 0; i < len(tok); i++ {
		tampered := []byte(tok)
		if tok[i] == '.' {
			tampered[i] = 'A'
		} else {
			// Flip the high bit of the 6-bit value so the decoded bytes
			// always change, even in the final character of a segment.
			idx := strings.IndexByte(alphabet, tok[i])
			require.GreaterOrEqual(t, idx, 0)
			tampered[i] = alphabet[idx^0x20]
		}

		_, err := svc.Verify(string(tampered))
		require.ErrorIs(t, err, ErrInvalidToken, "position %d", i)
	}
}

func TestVerify_Failures(t *testing.T) {
	svc := newService(t)
	valid, err := svc.Issue("user-1")
	require.NoError(t, err)

	other, err := New("another-secret")
	require.NoError(t, err)
	foreign, err := other.Issue("user-1")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	later := newService(t, WithClock(func() time.Time { return time.Now().Add(DefaultTTL + time.Minute) }))

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{name: "empty", svc: svc, token: ""},
		{name: "garbage", svc: svc, token: "not-a-token"},
		{name: "wrong secret", svc: svc, token: foreign},
		{name: "alg none", svc: svc, token: unsigned},
		{name: "expired", svc: later, token: valid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.svc.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
			require.Nil(t, claims)
		})
	}
}

func TestVerify_IssuerMismatch(t *testing.T) {
	issued, err := newService(t, WithIssuer("a")).Issue("user-1")
	require.NoError(t, err)

	_, err = newService(t, WithIssuer("b")).Verify(issued)
	require.ErrorIs(t, err, ErrInvalidToken)
}
