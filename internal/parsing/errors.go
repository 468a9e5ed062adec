package parsing

import "fmt"

// ResponseError reports a model answer that could not be turned into a draft.
type ResponseError struct {
	Message string
	Cause   error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unusable model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("unusable model response: %s", e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// DraftError reports a job draft rejected after post-processing. The rule
// stage takes over when the model stage fails this way.
type DraftError struct {
	Field   string
	Message string
}

func (e *DraftError) Error() string {
	return fmt.Sprintf("rejected job draft: %s: %s", e.Field, e.Message)
}
