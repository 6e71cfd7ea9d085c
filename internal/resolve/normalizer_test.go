package resolve_test

import (
	"slices"
	"testing"

	"github.com/mrsingh86/freightdesk/internal/resolve"
)

func TestVariants(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{
			name:  "empty",
			value: "",
			want:  []string{},
		},
		{
			name:  "whitespace only",
			value: "   ",
			want:  []string{},
		},
		{
			name:  "carrier prefixed booking",
			value: "MSK263805268",
			want:  []string{"MSK263805268", "263805268"},
		},
		{
			name:  "lowercase with separators",
			value: "msk-263805268",
			want:  []string{"msk-263805268", "MSK-263805268", "MSK263805268", "263805268"},
		},
		{
			name:  "padded value trimmed first",
			value: "  HLCUSH12345678  ",
			want:  []string{"HLCUSH12345678", "12345678"},
		},
		{
			name:  "container number keeps check digit",
			value: "MSCU 123456-7",
			want:  []string{"MSCU 123456-7", "MSCU1234567", "1234567"},
		},
		{
			name:  "short digits not emitted alone",
			value: "BK123",
			want:  []string{"BK123"},
		},
		{
			name:  "pure digits dedupe to one",
			value: "20260310",
			want:  []string{"20260310"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolve.Variants(tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("Variants(%q) = %v, want %v", tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Variants(%q)[%d] = %q, want %q", tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestVariantsNoDuplicates(t *testing.T) {
	got := resolve.Variants("ABC123456")
	for i, v := range got {
		if slices.Contains(got[i+1:], v) {
			t.Errorf("Variants() contains duplicate %q: %v", v, got)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"msk-263805268", "MSK263805268"},
		{"  MSCU 123456-7 ", "MSCU1234567"},
		{"ALREADY", "ALREADY"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := resolve.Canonical(tt.value); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
