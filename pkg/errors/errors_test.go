package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfig, "missing %s", "PACKAGIST_BASE_URL")

	if err.Code != ErrCodeConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfig)
	}

	expected := "CONFIG_ERROR: missing PACKAGIST_BASE_URL"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeStore, cause, "ping store")

	if err.Code != ErrCodeStore {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStore)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNetwork, "x"), ErrCodeNetwork, true},
		{"non-matching code", New(ErrCodeNetwork, "x"), ErrCodeStore, false},
		{"wrapped with fmt", fmt.Errorf("outer: %w", New(ErrCodeStore, "inner")), ErrCodeStore, true},
		{"plain error", errors.New("plain"), ErrCodeStore, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("ctx: %w", New(ErrCodeConfig, "store URI is not set"))
	if GetCode(err) != ErrCodeConfig {
		t.Errorf("GetCode() = %q, want %q", GetCode(err), ErrCodeConfig)
	}
	if UserMessage(err) != "store URI is not set" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}

	wrapped := Wrap(ErrCodeStore, errors.New("connection refused"), "connect to store")
	if got := UserMessage(wrapped); got != "connect to store: connection refused" {
		t.Errorf("UserMessage(wrapped) = %q", got)
	}

	plain := errors.New("boom")
	if GetCode(plain) != "" {
		t.Errorf("GetCode(plain) = %q, want empty", GetCode(plain))
	}
	if UserMessage(plain) != "boom" {
		t.Errorf("UserMessage(plain) = %q", UserMessage(plain))
	}
}
