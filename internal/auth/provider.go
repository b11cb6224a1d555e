// Package auth supplies the bearer token the dashboard fetches with.
//
// Login and refresh live elsewhere; this package only reads a token that
// some other process put in the config, the environment, or a file. An
// empty token means "not authenticated" and the dashboard skips fetching.
package auth

import (
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider exposes the current bearer token. Empty means not authenticated.
type Provider interface {
	Token() string
}

// Static returns a fixed token.
type Static string

// Token implements Provider.
func (s Static) Token() string {
	return usableOrEmpty(strings.TrimSpace(string(s)), time.Now())
}

// FileProvider reads the token from a file on every call, so a token
// rotated by an external agent is picked up without a restart.
type FileProvider struct {
	Path string
	now  func() time.Time
}

// NewFileProvider creates a provider backed by the file at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path, now: time.Now}
}

// Token implements Provider. A missing or unreadable file yields no token.
func (p *FileProvider) Token() string {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return ""
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return usableOrEmpty(strings.TrimSpace(string(data)), now())
}

// Chain returns the first non-empty token from its providers.
type Chain []Provider

// Token implements Provider.
func (c Chain) Token() string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if tok := p.Token(); tok != "" {
			return tok
		}
	}
	return ""
}

// New builds the provider for a configured token and token file.
// The inline token takes precedence over the file.
func New(token, tokenFile string) Provider {
	var chain Chain
	if token != "" {
		chain = append(chain, Static(token))
	}
	if tokenFile != "" {
		chain = append(chain, NewFileProvider(tokenFile))
	}
	return chain
}

// usableOrEmpty drops JWTs whose exp claim is in the past. Tokens that are
// not JWTs are opaque to us and passed through unchanged.
func usableOrEmpty(token string, now time.Time) string {
	if token == "" {
		return ""
	}
	claims, ok := parseClaims(token)
	if !ok {
		return token
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return token
	}
	if !exp.After(now) {
		return ""
	}
	return token
}

// Subject returns the JWT "sub" (or "name"/"email") claim for display,
// or empty for opaque tokens. The signature is not verified; the API does that.
func Subject(token string) string {
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	for _, key := range []string{"name", "email", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func parseClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Expiry returns the JWT "exp" claim. ok is false for opaque tokens and
// JWTs without an expiry.
func Expiry(token string) (exp time.Time, ok bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	t, err := claims.GetExpirationTime()
	if err != nil || t == nil {
		return time.Time{}, false
	}
	return t.Time, true
}
