package auth

import "errors"

// Auth error codes reported to clients.
const (
	CodeEmailInUse     = "auth/email-already-in-use"
	CodeInvalidEmail   = "auth/invalid-email"
	CodeWeakPassword   = "auth/weak-password"
	CodeUserNotFound   = "auth/user-not-found"
	CodeWrongPassword  = "auth/wrong-password"
	CodeNetworkFailure = "auth/network-request-failed"
)

// UnknownMessage is shown for any code without a dedicated message.
const UnknownMessage = "An unknown error occurred."

var messages = map[string]string{
	CodeEmailInUse:     "That email address is already in use!",
	CodeInvalidEmail:   "That email address is invalid!",
	CodeWeakPassword:   "Password is too weak. Please choose a stronger password.",
	CodeUserNotFound:   "No user found with this email. Please sign up.",
	CodeWrongPassword:  "Incorrect password. Please try again.",
	CodeNetworkFailure: "Network error. Please check your connection.",
}

// Message returns the human-readable message for an auth error code.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return UnknownMessage
}

// Error is an authentication failure with a client-facing code.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return Message(e.Code)
}

// NewError returns an *Error for code.
func NewError(code string) *Error {
	return &Error{Code: code}
}

// CodeOf extracts the auth code from err, or "" if err is not an auth error.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
