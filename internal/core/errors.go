package core

// Error codes for domain errors surfaced to clients. Invalid input (empty
// names, posts from unnamed connections) is dropped silently and has no code.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeNameTaken          = "name_taken"
	ErrCodeUnsupportedVersion = "unsupported_version"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
