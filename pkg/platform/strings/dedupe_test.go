package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  Red  ", "Blue  ", "  Green"},
			expected: []string{"Red", "Blue", "Green"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"Red", "Blue", "Red", "Green", "Blue"},
			expected: []string{"Red", "Blue", "Green"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "  ", "Red"},
			expected: []string{"Red"},
		},
		{
			name:     "duplicates after trimming",
			input:    []string{"Red", " Red", "Red "},
			expected: []string{"Red"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestTrimAll(t *testing.T) {
	assert.Nil(t, TrimAll(nil))
	assert.Equal(t, []string{"a", "", "a"}, TrimAll([]string{" a", "  ", "a "}))
}
