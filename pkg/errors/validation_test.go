package errors

import (
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"medium preset", 450, 150, false},
		{"single pixel", 1, 1, false},
		{"max edge", MaxDimension, 10, false},

		{"zero width", 0, 150, true},
		{"zero height", 450, 0, true},
		{"negative width", -1, 150, true},
		{"negative height", 450, -20, true},
		{"too wide", MaxDimension + 1, 150, true},
		{"too tall", 450, MaxDimension + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSpec) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidSpec)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "label_58.png", false},
		{"unicode", "label_Pokémon.png", false},
		{"dashes", "label_base1-4.png", false},

		{"empty", "", true},
		{"slash", "label_58/102.png", true},
		{"backslash", "label_58\\102.png", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"control char", "label\x01.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/labels.pdf", false},
		{"absolute", "/tmp/labels.pdf", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"null byte", "out\x00.pdf", true},
		{"newline", "out\n.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
