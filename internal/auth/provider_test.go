package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestStatic(t *testing.T) {
	assert.Equal(t, "opaque-token", Static("opaque-token").Token())
	assert.Equal(t, "opaque-token", Static("  opaque-token\n").Token())
	assert.Equal(t, "", Static("").Token())
}

func TestStatic_ExpiredJWTIsAbsent(t *testing.T) {
	expired := signedToken(t, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	assert.Equal(t, "", Static(expired).Token())

	valid := signedToken(t, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, valid, Static(valid).Token())
}

func TestStatic_JWTWithoutExpiry(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"sub": "operator"})
	assert.Equal(t, tok, Static(tok).Token())
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	p := NewFileProvider(path)

	// Missing file means not authenticated
	assert.Equal(t, "", p.Token())

	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o600))
	assert.Equal(t, "first", p.Token())

	// Rotated token is picked up on the next call
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	assert.Equal(t, "second", p.Token())
}

func TestFileProvider_UsesClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signedToken(t, jwt.MapClaims{"exp": exp.Unix()})
	require.NoError(t, os.WriteFile(path, []byte(tok), 0o600))

	p := NewFileProvider(path)
	p.now = func() time.Time { return exp.Add(-time.Minute) }
	assert.Equal(t, tok, p.Token())

	p.now = func() time.Time { return exp.Add(time.Minute) }
	assert.Equal(t, "", p.Token())
}

func TestChain(t *testing.T) {
	assert.Equal(t, "", Chain{}.Token())
	assert.Equal(t, "b", Chain{Static(""), nil, Static("b"), Static("c")}.Token())
}

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("from-file"), 0o600))

	assert.Equal(t, "inline", New("inline", path).Token())
	assert.Equal(t, "from-file", New("", path).Token())
	assert.Equal(t, "", New("", "").Token())
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "", Subject("opaque"))
	assert.Equal(t, "op-7", Subject(signedToken(t, jwt.MapClaims{"sub": "op-7"})))
	assert.Equal(t, "Field Operator", Subject(signedToken(t, jwt.MapClaims{"sub": "op-7", "name": "Field Operator"})))
}

func TestExpiry(t *testing.T) {
	_, ok := Expiry("opaque")
	assert.False(t, ok)

	_, ok = Expiry(signedToken(t, jwt.MapClaims{"sub": "op-7"}))
	assert.False(t, ok)

	want := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	exp, ok := Expiry(signedToken(t, jwt.MapClaims{"exp": want.Unix()}))
	require.True(t, ok)
	assert.True(t, want.Equal(exp))
}
