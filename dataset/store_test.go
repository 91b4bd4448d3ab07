package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ch string) Sample {
	return Sample{
		Character:     ch,
		Type:          "hiragana",
		IsCorrect:     true,
		AccuracyScore: 90,
		Timestamp:     "2024-01-01T00:00:00.000000",
		StrokeCount:   2,
		Features:      []float64{0.1, 0.2},
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	ds, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.NotNil(t, ds.Data)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	ds := New()
	ds.Append(sample("あ"), sample("い"), sample("あ"), sample("う"))

	require.NoError(t, Save(path, ds, SourceSynthetic))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Len())
	assert.Equal(t, 4, loaded.Metadata.TotalSamples)
	assert.ElementsMatch(t, []string{"あ", "い", "う"}, loaded.Metadata.Characters)
	assert.Equal(t, SourceSynthetic, loaded.Metadata.DataSource)
}

func TestSaveWritesCharactersLiterally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	ds := New()
	ds.Append(sample("あ"))
	s := sample("<&>")
	ds.Append(s)
	require.NoError(t, Save(path, ds, "test"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, `"character": "あ"`)
	assert.Contains(t, text, `"<&>"`)
	assert.NotContains(t, text, `\u3042`)
	assert.NotContains(t, text, `\u003c`)
}

func TestSaveIgnoresStaleMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	ds := New()
	ds.Metadata = Metadata{TotalSamples: 99, Characters: []string{"z"}}
	ds.Append(sample("か"))
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, save(path, ds, "app", now))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Metadata.TotalSamples)
	assert.Equal(t, []string{"か"}, loaded.Metadata.Characters)
	assert.Equal(t, "2024-05-06T07:08:09.000000", loaded.Metadata.ExportDate)
}

func TestAppendKeepsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	ds := New()
	for i := 0; i < 3; i++ {
		ds.Append(sample("あ"))
	}
	require.NoError(t, Save(path, ds, SourceSynthetic))

	more := []Sample{sample("あ"), sample("あ")}
	merged, err := Merge(path, more, SourceSynthetic)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Len())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Metadata.TotalSamples)
	assert.Equal(t, []string{"あ"}, loaded.Metadata.Characters)
}

func TestMergeRefusesOtherPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	img := sample("い")
	img.Features = nil
	img.ImageData = "aGVsbG8="
	_, err := Merge(path, []Sample{img}, SourceSynthetic)
	require.NoError(t, err)

	_, err = Merge(path, []Sample{sample("あ")}, SourceSynthetic)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMixedPayload))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
	images, features := loaded.PayloadCounts()
	assert.Equal(t, 1, images)
	assert.Equal(t, 0, features)

	assert.NoError(t, loaded.CheckPayload(PayloadImage))
	assert.ErrorIs(t, loaded.CheckPayload(PayloadFeatures), ErrMixedPayload)
}

func TestSaveEmptyWritesArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Save(path, &Dataset{}, SourceSynthetic))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"data": []`))
	assert.True(t, strings.Contains(string(b), `"characters": []`))
}

func TestSamplesNeeded(t *testing.T) {
	assert.Equal(t, 21, SamplesNeeded(0, 46, 1000))
	assert.Equal(t, 20, SamplesNeeded(900, 46, 1000))
	assert.Equal(t, 0, SamplesNeeded(1000, 46, 1000))
	assert.Equal(t, 0, SamplesNeeded(1500, 46, 1000))
}
