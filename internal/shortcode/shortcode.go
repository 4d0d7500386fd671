// Package shortcode generates and validates short codes.
package shortcode

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet holds the 62 characters a short code is built from.
	Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// DefaultLength is the length of generated codes unless configured otherwise.
	DefaultLength = 7
	// MaxLength bounds both generated and custom codes.
	MaxLength = 32
)

// reserved codes would be shadowed by fixed routes.
var reserved = map[string]bool{
	"api":     true,
	"docs":    true,
	"swagger": true,
	"health":  true,
}

// Generator produces random fixed-length codes. It knows nothing about stored codes.
type Generator struct {
	length int
}

// NewGenerator returns a Generator for codes of the given length.
// Non-positive lengths fall back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}

	return &Generator{length: length}
}

// Length returns the length of generated codes.
func (g *Generator) Length() int {
	return g.length
}

// Generate returns a new code drawn uniformly from Alphabet.
func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	if g.length > MaxLength {
		return "", fmt.Errorf("%s: length %d exceeds %d", op, g.length, MaxLength)
	}

	code, err := gonanoid.Generate(Alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
	}

	return code, nil
}

// Valid reports whether code may be used as a custom short code.
func Valid(code string) bool {
	if code == "" || len(code) > MaxLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}

	return !reserved[strings.ToLower(code)]
}
