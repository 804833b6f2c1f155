package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatText = "txt"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatText: true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, txt, json)", format)
	}
	return nil
}

// NeedsRsvg reports whether format is produced by [Convert].
func NeedsRsvg(format string) bool {
	return format == FormatPNG || format == FormatPDF
}

// Convert turns SVG into PNG or PDF. Scale only applies to PNG; values
// below or equal to zero mean 1.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	var args []string
	switch format {
	case FormatPDF:
		args = []string{"-f", "pdf"}
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		args = []string{"-f", "png", "-z", fmt.Sprintf("%.2f", scale)}
	default:
		return nil, fmt.Errorf("convert: unsupported target %q", format)
	}

	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
