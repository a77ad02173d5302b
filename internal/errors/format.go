package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// asAppError finds the first AppError in err's chain.
func asAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// orInternal returns the AppError in err's chain, or err wrapped as an
// internal error when there is none.
func orInternal(err error) *AppError {
	if ae, ok := asAppError(err); ok {
		return ae
	}
	return Wrap(ErrCodeInternal, err)
}

// FormatForUser returns the message shown in the chat window:
//
//	Error: <message>
//
//	Suggestion: <suggestion>
//
//	[<code>]
//
// With debug the details and the cause are listed before the code.
// Errors without an AppError in the chain are returned as is.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}
	ae, ok := asAppError(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ae.Message)
	if ae.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", ae.Suggestion)
	}
	if debug && hasDebugInfo(ae) {
		sb.WriteString("\n")
		writeDebugLines(&sb, ae, "")
	}
	fmt.Fprintf(&sb, "\n[%s]", ae.Code)
	return sb.String()
}

// FormatForCLI formats an error for stderr. --debug adds the details and cause.
func FormatForCLI(err error, debug bool) string {
	if err == nil {
		return ""
	}
	ae := orInternal(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ae.Message)
	if ae.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", ae.Suggestion)
	}
	if debug {
		writeDebugLines(&sb, ae, "  ")
	}
	fmt.Fprintf(&sb, "  Code: %s\n", ae.Code)
	return sb.String()
}

func hasDebugInfo(ae *AppError) bool {
	return len(ae.Details) > 0 || ae.Cause != nil
}

// writeDebugLines writes details in key order, then the cause.
func writeDebugLines(sb *strings.Builder, ae *AppError, indent string) {
	for _, k := range slices.Sorted(maps.Keys(ae.Details)) {
		fmt.Fprintf(sb, "%s%s: %s\n", indent, k, ae.Details[k])
	}
	if ae.Cause != nil {
		fmt.Fprintf(sb, "%sCause: %s\n", indent, ae.Cause)
	}
}

// JSONError is the body of a JSON error report.
type JSONError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Suggestion string            `json:"suggestion,omitempty"`
	Retryable  bool              `json:"retryable"`
	Details    map[string]string `json:"details,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON reports err as {"error": {...}} for commands running with
// --format json. Details and cause are included only with debug.
func FormatJSON(err error, debug bool) ([]byte, error) {
	if err == nil {
		return nil, errors.New("no error to format")
	}
	ae := orInternal(err)

	je := JSONError{
		Code:       ae.Code,
		Message:    ae.Message,
		Category:   string(ae.Category),
		Suggestion: ae.Suggestion,
		Retryable:  ae.Retryable,
	}
	if debug {
		je.Details = ae.Details
		if ae.Cause != nil {
			je.Cause = ae.Cause.Error()
		}
	}
	return json.Marshal(struct {
		Error JSONError `json:"error"`
	}{je})
}

// FormatForLog returns slog attribute pairs for err. Details are prefixed
// with "detail_".
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}
	ae, ok := asAppError(err)
	if !ok {
		return map[string]any{"error": err.Error()}
	}

	result := map[string]any{
		"error_code": ae.Code,
		"message":    ae.Message,
		"category":   string(ae.Category),
		"severity":   string(ae.Severity),
		"retryable":  ae.Retryable,
	}
	if ae.Cause != nil {
		result["cause"] = ae.Cause.Error()
	}
	if ae.Suggestion != "" {
		result["suggestion"] = ae.Suggestion
	}
	for k, v := range ae.Details {
		result["detail_"+k] = v
	}
	return result
}
