package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	assert.Equal(t, DefaultLength, NewGenerator(0).Length())
	assert.Equal(t, DefaultLength, NewGenerator(-3).Length())
	assert.Equal(t, 10, NewGenerator(10).Length())
}

func TestGenerator_Generate(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		g := NewGenerator(DefaultLength)

		for i := 0; i < 100; i++ {
			code, err := g.Generate()

			require.NoError(t, err)
			assert.Len(t, code, DefaultLength)

			for _, c := range code {
				assert.True(t, strings.ContainsRune(Alphabet, c), "unexpected char %q", c)
			}
		}
	})

	t.Run("too long", func(t *testing.T) {
		g := NewGenerator(MaxLength + 1)

		code, err := g.Generate()

		assert.Error(t, err)
		assert.Empty(t, code)
	})

	t.Run("codes differ", func(t *testing.T) {
		g := NewGenerator(DefaultLength)
		seen := make(map[string]bool)

		for i := 0; i < 1000; i++ {
			code, err := g.Generate()
			require.NoError(t, err)

			seen[code] = true
		}

		assert.Len(t, seen, 1000)
	})
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 62)

	seen := make(map[rune]bool)
	for _, c := range Alphabet {
		assert.False(t, seen[c], "duplicate char %q", c)
		seen[c] = true
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"abc123", true},
		{"A", true},
		{"MyLink2024", true},
		{strings.Repeat("a", MaxLength), true},
		{"", false},
		{strings.Repeat("a", MaxLength+1), false},
		{"has-dash", false},
		{"under_score", false},
		{"with space", false},
		{"ünïcode", false},
		{"api", false},
		{"API", false},
		{"swagger", false},
		{"docs", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.code))
		})
	}
}
