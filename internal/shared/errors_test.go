package shared

import (
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "terms", err: ErrTermsNotAccepted, want: "Please accept the terms and conditions"},
		{name: "mismatch", err: fmt.Errorf("register: %w", ErrPasswordMismatch), want: "Passwords do not match"},
		{name: "weak", err: ErrPasswordTooWeak, want: "Password must be at least 6 characters long"},
		{name: "validation", err: fmt.Errorf("%w: email is required", ErrValidation), want: "Please enter valid credentials"},
		{name: "provider before validation", err: fmt.Errorf("%w: %w", ErrValidation, ErrUnsupportedProvider), want: "That login provider is not supported"},
		{name: "other", err: fmt.Errorf("boom"), want: "boom"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
