package formatting_test

import (
	"testing"

	"github.com/JaimeStill/oagrade/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "2048", 2048, false},
		{"kilobytes", "512KB", 512 * 1024, false},
		{"megabytes", "20MB", 20 * 1024 * 1024, false},
		{"fractional", "1.5MB", 1536 * 1024, false},
		{"lowercase with space", "8 mb", 8 * 1024 * 1024, false},
		{"empty string", "", 0, true},
		{"unknown unit", "20XB", 0, true},
		{"negative", "-1MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 2, "0 B"},
		{900, 0, "900 B"},
		{245 * 1024, 0, "245 KB"},
		{1536 * 1024, 1, "1.5 MB"},
		{1024, -3, "1 KB"},
	}

	for _, tt := range tests {
		got := formatting.FormatBytes(tt.n, tt.precision)
		if got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
		}
	}
}
