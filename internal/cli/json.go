package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/saherflow/saher/internal/api"
	"github.com/saherflow/saher/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeAuthRequired   = "AUTH_REQUIRED"
	ErrCodeAPIFailed      = "API_FAILED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUnknown        = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var httpErr *api.HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErrorToJSON(httpErr, err)
	}

	var sErr *errors.Error
	if stderrors.As(err, &sErr) {
		return &JSONError{
			Code:       mapErrorCode(sErr.Code, sErr.Message),
			Message:    errors.Summary(sErr),
			Suggestion: sErr.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrAuth:
		return ErrCodeAuthRequired
	case errors.ErrAPI:
		return ErrCodeAPIFailed
	}
	return ErrCodeUnknown
}

// httpErrorToJSON maps an API status to a code an automation can act on.
func httpErrorToJSON(httpErr *api.HTTPError, err error) *JSONError {
	code := ErrCodeAPIFailed
	var suggestion string
	switch httpErr.StatusCode {
	case 401, 403:
		code = ErrCodeAuthRequired
		suggestion = "Check the token in auth.token, auth.token_file, or SAHER_TOKEN"
	case 404:
		code = ErrCodeNotFound
		suggestion = "Run 'saher devices' to list valid IDs"
	}

	msg := err.Error()
	var sErr *errors.Error
	if stderrors.As(err, &sErr) {
		msg = errors.Summary(sErr)
	}
	return &JSONError{
		Code:       code,
		Message:    msg,
		Suggestion: suggestion,
		Details: map[string]interface{}{
			"status": httpErr.StatusCode,
		},
	}
}
