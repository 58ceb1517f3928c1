package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeEmptyUniverse, "no nodes after removing %q", "<")
	want := `EMPTY_UNIVERSE: no nodes after removing "<"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	cause := errors.New("boom")
	wrapped := Wrap(ErrCodeInternal, cause, "rank")
	if wrapped.Error() != "INTERNAL_ERROR: rank: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error should unwrap to cause")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("run: %w", New(ErrCodeDegenerateBeta, "beta 2 outside [0,1]"))

	if !Is(err, ErrCodeDegenerateBeta) {
		t.Error("Is should find code through fmt.Errorf wrapping")
	}
	if Is(err, ErrCodeEmptyUniverse) {
		t.Error("Is should not match a different code")
	}
	if GetCode(err) != ErrCodeDegenerateBeta {
		t.Errorf("GetCode = %q", GetCode(err))
	}
	if GetCode(errors.New("plain")) != "" {
		t.Error("GetCode of plain error should be empty")
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad input")); got != "bad input" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestIsInput(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeEmptyUniverse, "x"), true},
		{New(ErrCodeDegenerateBeta, "x"), true},
		{New(ErrCodeUnknownNode, "x"), true},
		{New(ErrCodeInternal, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsInput(tt.err); got != tt.want {
			t.Errorf("IsInput(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestValidateSentinel(t *testing.T) {
	tests := []struct {
		name      string
		sentinel  string
		delimiter string
		wantErr   bool
	}{
		{"default", "<", ";", false},
		{"word", "BACK", ";", false},
		{"empty", "", ";", true},
		{"space", "a b", ";", true},
		{"contains delimiter", "<;", ";", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSentinel(tt.sentinel, tt.delimiter)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSentinel(%q) error = %v, wantErr %v", tt.sentinel, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidOption) {
				t.Errorf("expected INVALID_OPTION, got %v", err)
			}
		})
	}
}

func TestValidateDelimiter(t *testing.T) {
	if err := ValidateDelimiter(";"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDelimiter(""); err == nil {
		t.Error("empty delimiter should fail")
	}
	if err := ValidateDelimiter("\n"); err == nil {
		t.Error("newline delimiter should fail")
	}
}
