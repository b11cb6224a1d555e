package doctor

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/saherflow/saher/internal/auth"
)

// expiryWarning is how close to expiry a JWT must be before it is flagged.
const expiryWarning = 24 * time.Hour

// TokenCheck inspects the configured bearer token without sending it anywhere.
// Expired JWTs count as absent when fetching, so they fail here.
type TokenCheck struct {
	Token     string // Inline token, already merged with SAHER_TOKEN
	TokenFile string
	Now       func() time.Time
}

func (c *TokenCheck) Name() string     { return "token" }
func (c *TokenCheck) Category() string { return "AUTH" }

func (c *TokenCheck) Run() CheckResult {
	token, source, err := c.resolve()
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot read token file: %v", err),
			Suggestion: "Check auth.token_file points at a readable file",
		}
	}
	if token == "" {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "No token configured; the dashboard will show no data",
			Suggestion: "Set auth.token, auth.token_file, or SAHER_TOKEN",
		}
	}

	exp, ok := auth.Expiry(token)
	if !ok {
		return CheckResult{
			Status:  StatusPass,
			Message: "Token from " + source,
		}
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	left := exp.Sub(now())
	who := ""
	if sub := auth.Subject(token); sub != "" {
		who = " for " + sub
	}

	switch {
	case left <= 0:
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Token%s expired at %s", who, exp.Local().Format(time.RFC3339)),
			Suggestion: "Refresh the token in " + source,
		}
	case left < expiryWarning:
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Token%s expires in %s", who, left.Round(time.Minute)),
			Suggestion: "Refresh the token in " + source + " soon",
		}
	default:
		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("Token%s from %s, valid until %s", who, source, exp.Local().Format("2006-01-02")),
		}
	}
}

// resolve returns the raw token and where it came from. The inline token
// wins over the file, matching auth.New.
func (c *TokenCheck) resolve() (token, source string, err error) {
	if tok := strings.TrimSpace(c.Token); tok != "" {
		return tok, "auth.token", nil
	}
	if c.TokenFile == "" {
		return "", "", nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(string(data)), c.TokenFile, nil
}
