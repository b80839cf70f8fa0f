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
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims whitespace", input: []string{"  Cookie  ", "Authorization "}, expected: []string{"Cookie", "Authorization"}},
		{name: "removes duplicates preserving order", input: []string{"b", "a", "b"}, expected: []string{"b", "a"}},
		{name: "removes empty strings", input: []string{"a", "", "  ", "b"}, expected: []string{"a", "b"}},
		{name: "preserves case", input: []string{"Cookie", "cookie"}, expected: []string{"Cookie", "cookie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t, []string{"Cookie", "Authorization"}, DedupeFold([]string{"Cookie", " cookie", "Authorization", "AUTHORIZATION"}))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("   "))
	assert.Equal(t, []string{"Cookie", "Authorization"}, SplitList("Cookie, Authorization,,Cookie"))
}
