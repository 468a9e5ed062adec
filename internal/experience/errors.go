// Package experience parses résumé date expressions and reconciles employment
// intervals into a total years-of-experience figure.
package experience

import "fmt"

// DateParseError represents a date string that could not be resolved
type DateParseError struct {
	Input   string
	Message string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("date parse error: %q: %s", e.Input, e.Message)
}
