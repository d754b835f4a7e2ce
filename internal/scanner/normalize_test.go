package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/agentscan/internal/scanner"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare host gains trailing slash",
			input: "https://example.com",
			want:  "https://example.com/",
		},
		{
			name:  "trailing slash preserved",
			input: "https://example.com/",
			want:  "https://example.com/",
		},
		{
			name:  "path preserved",
			input: "https://example.com/pricing",
			want:  "https://example.com/pricing",
		},
		{
			name:  "query preserved",
			input: "https://example.com/shop?ref=home",
			want:  "https://example.com/shop?ref=home",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  https://example.com/  ",
			want:  "https://example.com/",
		},
		{
			name:  "http scheme accepted",
			input: "http://example.com",
			want:  "http://example.com/",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := scanner.NormalizeURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"https://example.com",
		"https://example.com/pricing?plan=pro",
		"http://sub.example.com/a/b/",
	}

	for _, input := range inputs {
		once, err := scanner.NormalizeURL(input)
		require.NoError(t, err)

		twice, err := scanner.NormalizeURL(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice, "normalization must be idempotent for %q", input)
	}
}

func TestNormalizeURL_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty string", "", scanner.ErrEmptyURL},
		{"whitespace only", "   ", scanner.ErrEmptyURL},
		{"relative path", "/pricing", scanner.ErrInvalidURL},
		{"missing scheme", "example.com", scanner.ErrInvalidURL},
		{"unsupported scheme", "ftp://example.com", scanner.ErrInvalidURL},
		{"scheme only", "https://", scanner.ErrInvalidURL},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := scanner.NormalizeURL(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
