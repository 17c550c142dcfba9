package session

import "fmt"

// AuthErrorKind distinguishes the login failure modes. Callers never
// auto-retry InvalidCredentials or ChallengeRequired; Timeout may be
// retried once with a fresh handle.
type AuthErrorKind int

const (
	InvalidCredentials AuthErrorKind = iota
	ChallengeRequired
	Timeout
)

func (k AuthErrorKind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case ChallengeRequired:
		return "challenge_required"
	case Timeout:
		return "timeout"
	}
	return "unknown"
}

// AuthError is the session driver's boundary error.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("session: auth %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("session: auth %s", e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the user-facing explanation for a login failure.
func (e *AuthError) Message() string {
	switch e.Kind {
	case InvalidCredentials:
		return "Login failed: the email or password is incorrect."
	case ChallengeRequired:
		return "Login blocked: LinkedIn is asking for a security verification. Complete it manually and try again."
	default:
		return "Login timed out: LinkedIn did not respond in time."
	}
}
