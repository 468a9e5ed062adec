package ranking

import "fmt"

// ContractError reports a broken invariant: invalid weights or a score
// outside [0,100]. It indicates a programming error rather than bad input.
type ContractError struct {
	Message string
	Cause   error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("contract violation: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("contract violation: %s", e.Message)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

// EmbeddingError wraps a failure of the embedding provider
type EmbeddingError struct {
	Message string
	Cause   error
}

func (e *EmbeddingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding failed: %s", e.Message)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Cause
}
