package auth

import (
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{CodeUserNotFound, "No user found with this email. Please sign up."},
		{CodeWrongPassword, "Incorrect password. Please try again."},
		{CodeInvalidEmail, "That email address is invalid!"},
		{CodeEmailInUse, "That email address is already in use!"},
		{CodeWeakPassword, "Password is too weak. Please choose a stronger password."},
		{CodeNetworkFailure, "Network error. Please check your connection."},
		{"auth/too-many-requests", UnknownMessage},
		{"", UnknownMessage},
	}

	for _, tt := range tests {
		if got := Message(tt.code); got != tt.want {
			t.Errorf("Message(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("login: %w", NewError(CodeWrongPassword))
	if got := CodeOf(err); got != CodeWrongPassword {
		t.Errorf("CodeOf = %q, want %q", got, CodeWrongPassword)
	}
	if err.Error() != "login: Incorrect password. Please try again." {
		t.Errorf("unexpected error text %q", err.Error())
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
}
