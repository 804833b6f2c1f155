package render

import (
	"context"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"txt", false},
		{"json", false},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestNeedsRsvg(t *testing.T) {
	for f, want := range map[string]bool{"png": true, "pdf": true, "svg": false, "dot": false} {
		if got := NeedsRsvg(f); got != want {
			t.Errorf("NeedsRsvg(%q) = %v", f, got)
		}
	}
}

func TestConvertUnsupported(t *testing.T) {
	if _, err := Convert(context.Background(), []byte("<svg/>"), FormatDOT, 1); err == nil {
		t.Error("expected error for dot target")
	}
}
