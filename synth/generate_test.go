package synth

import (
	"context"
	"testing"
	"time"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func generator(workers int64) *Generator {
	return &Generator{
		Table:   alphabet.NewHiragana(),
		Fonts:   builtinFonts(),
		Size:    DefaultSize,
		Seed:    42,
		Workers: workers,
		Now:     func() time.Time { return fixedNow },
	}
}

func TestGenerateOrderAndFields(t *testing.T) {
	g := generator(4)
	samples, err := g.Generate(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, samples, 46*2)

	chars := g.Table.Characters()
	for i, s := range samples {
		assert.Equal(t, chars[i/2], s.Character)
		assert.Equal(t, "hiragana", s.Type)
		assert.True(t, s.IsCorrect)
		assert.GreaterOrEqual(t, s.AccuracyScore, 80.0)
		assert.LessOrEqual(t, s.AccuracyScore, 100.0)
		assert.Equal(t, "2024-03-01T12:00:00.000000", s.Timestamp)
		assert.NotEmpty(t, s.ID)
		assert.True(t, s.HasImage())
		assert.False(t, s.HasFeatures())
	}
}

func TestGenerateFiveSamplesForA(t *testing.T) {
	g := generator(2)
	samples, err := g.Generate(context.Background(), 5)
	require.NoError(t, err)

	var a []dataset.Sample
	for _, s := range samples {
		if s.Character == "あ" {
			a = append(a, s)
		}
	}
	require.Len(t, a, 5)

	for _, s := range a {
		assert.Equal(t, 3, s.StrokeCount)
		assert.True(t, s.IsCorrect)

		img, err := dataset.DecodeImage(s.ImageData)
		require.NoError(t, err)
		assert.Equal(t, 64, img.Bounds().Dx())
		assert.Equal(t, 64, img.Bounds().Dy())
	}
}

func TestGenerateDeterministicAcrossWorkers(t *testing.T) {
	one, err := generator(1).Generate(context.Background(), 3)
	require.NoError(t, err)
	many, err := generator(16).Generate(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, one, many)
}

func TestGenerateZero(t *testing.T) {
	samples, err := generator(1).Generate(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := generator(2).Generate(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
