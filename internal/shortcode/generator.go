package shortcode

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"urlshortener/internal/types"
)

const (
	alphabet = "0123456789qwertyuiopasdfghjklzxcvbnmMNBVCXZLKJHGFDQASWERTYUIOP"

	CodeLength         = 8
	MaxCustomLength    = 100
	DefaultMaxAttempts = 5
)

// ExistsFunc reports whether a code is already bound to a mapping.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

type Generator struct {
	maxAttempts int
	newID       func() uuid.UUID
}

func NewGenerator() *Generator {
	return NewGeneratorWithSource(DefaultMaxAttempts, uuid.New)
}

// NewGeneratorWithSource builds a generator with a custom id source, mainly for tests.
func NewGeneratorWithSource(maxAttempts int, newID func() uuid.UUID) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Generator{maxAttempts: maxAttempts, newID: newID}
}

// Generate returns customCode when it is free, otherwise a fresh random code.
// A taken custom code silently falls through to random generation.
func (g *Generator) Generate(ctx context.Context, customCode string, exists ExistsFunc) (string, error) {
	if customCode != "" {
		if !Valid(customCode) {
			return "", fmt.Errorf("custom code %q: %w", customCode, types.ErrInvalidInput)
		}
		taken, err := exists(ctx, customCode)
		if err != nil {
			return "", err
		}
		if !taken {
			return customCode, nil
		}
		slog.Debug("custom code taken, generating random one", "code", customCode)
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code := g.random()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		slog.Warn("random code collided", "code", code, "attempt", attempt)
	}

	return "", fmt.Errorf("after %d attempts: %w", g.maxAttempts, types.ErrGenerationExhausted)
}

func (g *Generator) random() string {
	id := g.newID()
	n := binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	return base62Encode(n, CodeLength)
}

// base62Encode renders the low length base62 digits of n.
func base62Encode(n uint64, length int) string {
	res := make([]byte, length)
	for i := range res {
		res[i] = alphabet[n%62]
		n /= 62
	}
	return string(res)
}

// reserved codes collide with fixed top-level routes.
var reserved = map[string]bool{
	"health":     true,
	"shortenUrl": true,
}

// Valid reports whether code may be used as a custom short code.
func Valid(code string) bool {
	if len(code) == 0 || len(code) > MaxCustomLength || reserved[code] {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
