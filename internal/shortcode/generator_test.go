package shortcode_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlshortener/internal/shortcode"
	"urlshortener/internal/types"
)

func existsIn(codes ...string) shortcode.ExistsFunc {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return func(_ context.Context, code string) (bool, error) {
		return set[code], nil
	}
}

func TestGenerate_CustomCodeFree(t *testing.T) {
	g := shortcode.NewGenerator()

	code, err := g.Generate(context.Background(), "custom123", existsIn())

	require.NoError(t, err)
	assert.Equal(t, "custom123", code)
}

func TestGenerate_CustomCodeTakenFallsBack(t *testing.T) {
	g := shortcode.NewGenerator()

	code, err := g.Generate(context.Background(), "taken", existsIn("taken"))

	require.NoError(t, err)
	assert.NotEqual(t, "taken", code)
	assert.Len(t, code, shortcode.CodeLength)
}

func TestGenerate_RandomCode(t *testing.T) {
	g := shortcode.NewGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := g.Generate(context.Background(), "", existsIn())
		require.NoError(t, err)
		assert.Len(t, code, shortcode.CodeLength)
		assert.True(t, shortcode.Valid(code))
		seen[code] = true
	}
	assert.Len(t, seen, 200)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	ids := []uuid.UUID{uuid.MustParse("00000000-0000-0000-0000-000000000000"), uuid.New()}
	calls := 0
	g := shortcode.NewGeneratorWithSource(3, func() uuid.UUID {
		id := ids[calls%len(ids)]
		calls++
		return id
	})

	code, err := g.Generate(context.Background(), "", existsIn("00000000"))

	require.NoError(t, err)
	assert.NotEqual(t, "00000000", code)
	assert.Equal(t, 2, calls)
}

func TestGenerate_Exhausted(t *testing.T) {
	g := shortcode.NewGeneratorWithSource(4, func() uuid.UUID { return uuid.UUID{} })
	checks := 0
	exists := func(context.Context, string) (bool, error) {
		checks++
		return true, nil
	}

	_, err := g.Generate(context.Background(), "", exists)

	assert.ErrorIs(t, err, types.ErrGenerationExhausted)
	assert.Equal(t, 4, checks)
}

func TestGenerate_InvalidCustomCode(t *testing.T) {
	g := shortcode.NewGenerator()

	for _, code := range []string{"has space", "slash/", strings.Repeat("a", 101), "ünï"} {
		_, err := g.Generate(context.Background(), code, existsIn())
		assert.ErrorIs(t, err, types.ErrInvalidInput, code)
	}
}

func TestValid_RouteNamesReserved(t *testing.T) {
	assert.False(t, shortcode.Valid("health"))
	assert.False(t, shortcode.Valid("shortenUrl"))
	assert.True(t, shortcode.Valid("Health"))
	assert.True(t, shortcode.Valid("healthy"))

	_, err := shortcode.NewGenerator().Generate(context.Background(), "health", existsIn())
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestGenerate_ExistsErrorPropagates(t *testing.T) {
	g := shortcode.NewGenerator()
	boom := errors.New("db down")

	_, err := g.Generate(context.Background(), "", func(context.Context, string) (bool, error) {
		return false, boom
	})

	assert.ErrorIs(t, err, boom)
}
