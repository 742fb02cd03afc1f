package todo

// ValidationError rejects an operation before any I/O happens. It never
// changes controller state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(msg string) error {
	return &ValidationError{Message: msg}
}
