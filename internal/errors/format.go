package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
)

// asTrieError finds the first TrieError in err's chain.
func asTrieError(err error) (*TrieError, bool) {
	var te *TrieError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// FormatForUser returns a user-friendly error message.
// If debug is true, includes additional technical details.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}

	te, ok := asTrieError(err)
	if !ok {
		// Standard error - just return message
		return err.Error()
	}

	var sb strings.Builder

	// Main error message
	sb.WriteString("Error: ")
	sb.WriteString(te.Message)
	sb.WriteString("\n")

	// Suggestion if available
	if te.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(te.Suggestion)
		sb.WriteString("\n")
	}

	if debug && te.Cause != nil {
		sb.WriteString("\nCause: ")
		sb.WriteString(te.Cause.Error())
		sb.WriteString("\n")
	}

	// Error code for reference
	sb.WriteString(fmt.Sprintf("\n[%s]", te.Code))

	return sb.String()
}

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	te, ok := asTrieError(err)
	if !ok {
		// Wrap standard error
		te = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	// Error message with code
	sb.WriteString(fmt.Sprintf("Error: %s\n", te.Message))

	// Suggestion if available
	if te.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", te.Suggestion))
	}

	// Code reference
	sb.WriteString(fmt.Sprintf("  Code: %s\n", te.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
// Suitable for machine consumption and structured logging.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	te, ok := asTrieError(err)
	if !ok {
		// Wrap standard error
		te = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       te.Code,
		Message:    te.Message,
		Category:   string(te.Category),
		Severity:   string(te.Severity),
		Details:    te.Details,
		Suggestion: te.Suggestion,
	}

	if te.Cause != nil {
		je.Cause = te.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	te, ok := asTrieError(err)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": te.Code,
		"message":    te.Message,
		"category":   string(te.Category),
		"severity":   string(te.Severity),
	}

	if te.Cause != nil {
		result["cause"] = te.Cause.Error()
	}

	if te.Suggestion != "" {
		result["suggestion"] = te.Suggestion
	}

	for k, v := range te.Details {
		result["detail_"+k] = v
	}

	return result
}
