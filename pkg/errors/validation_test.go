package errors

import (
	"strings"
	"testing"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "library", false},
		{"valid with dash", "my-model", false},
		{"valid with space", "Order System", false},
		{"valid with dot", "model.v2", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path separator", "foo/bar", true},
		{"backslash", "foo\\bar", true},
		{"traversal", "..", true},
		{"hidden", ".model", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"reserved", "what?", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateProjectName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateClassName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Class", false},
		{"variant", "Association::Composition", false},
		{"underscore", "My_Class2", false},

		{"empty", "", true},
		{"empty variant", "Association::", true},
		{"two separators", "A::B::C", true},
		{"leading digit", "2Class", true},
		{"space", "My Class", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClassName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateClassName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
