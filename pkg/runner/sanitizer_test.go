package runner

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := SanitizeInput(input)
			if tt.wantErr {
				if !errors.Is(err, ErrInputTooLarge) {
					t.Errorf("SanitizeInput() expected ErrInputTooLarge for size %d, got %v", tt.inputSize, err)
				}
			} else if err != nil {
				t.Errorf("SanitizeInput() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "The knife was never recovered.", "The knife was never recovered."},
		{"Safe Controls", "Point one\nPoint two\tindented", "Point one\nPoint two\tindented"},
		{"ANSI Code", "\x1b[31mObjection\x1b[0m", "[31mObjection[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSetMaxInputSize(t *testing.T) {
	SetMaxInputSize(10)
	t.Cleanup(func() { SetMaxInputSize(0) })

	if _, err := SanitizeInput("12345678901"); err == nil {
		t.Error("Expected error for input > 10 after override")
	}
	if _, err := SanitizeInput("12345"); err != nil {
		t.Errorf("Unexpected error for valid input: %v", err)
	}

	SetMaxInputSize(-1)
	if got := MaxInputSize(); got != DefaultMaxInputSize {
		t.Errorf("non-positive size should restore default, got %d", got)
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	input := "\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98"
	_, err := SanitizeInput(input)
	if err != ErrInvalidUTF8 {
		t.Errorf("Expected ErrInvalidUTF8, got %v", err)
	}
}

func TestIsExitCommand(t *testing.T) {
	for _, in := range []string{"exit", "quit", " EXIT ", "Quit\n"} {
		if !IsExitCommand(in) {
			t.Errorf("IsExitCommand(%q) = false", in)
		}
	}
	for _, in := range []string{"", "exit now", "I quit smoking"} {
		if IsExitCommand(in) {
			t.Errorf("IsExitCommand(%q) = true", in)
		}
	}
}
