package skills

// OverlayError represents an error loading a vocabulary overlay
type OverlayError struct {
	Message string
	Cause   error
}

func (e *OverlayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *OverlayError) Unwrap() error {
	return e.Cause
}
