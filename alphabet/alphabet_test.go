package alphabet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexIsBijection(t *testing.T) {
	for _, table := range []*Table{NewHiragana(), NewKana()} {
		seen := make(map[int]bool)
		for _, ch := range table.Characters() {
			i, ok := table.Index(ch)
			require.True(t, ok, ch)
			require.False(t, seen[i], "duplicate index %d", i)
			seen[i] = true

			c, ok := table.At(i)
			require.True(t, ok)
			assert.Equal(t, ch, c.Value)
		}
		assert.Len(t, seen, table.Len())
		for i := 0; i < table.Len(); i++ {
			assert.True(t, seen[i], "index %d not covered", i)
		}
	}
}

func TestTableSizes(t *testing.T) {
	assert.Equal(t, 46, NewHiragana().Len())
	assert.Equal(t, 92, NewKana().Len())
}

func TestKanaKeepsHiraganaIndices(t *testing.T) {
	h, k := NewHiragana(), NewKana()
	for _, ch := range h.Characters() {
		hi, _ := h.Index(ch)
		ki, _ := k.Index(ch)
		assert.Equal(t, hi, ki)
	}
	c, ok := k.Lookup("ア")
	require.True(t, ok)
	assert.Equal(t, 46, c.Index)
	assert.Equal(t, Katakana, c.Script)
	assert.Equal(t, DefaultStrokeCount, c.StrokeCount)
}

func TestStrokeCount(t *testing.T) {
	table := NewHiragana()
	assert.Equal(t, 3, table.StrokeCount("あ"))
	assert.Equal(t, 1, table.StrokeCount("し"))
	assert.Equal(t, 4, table.StrokeCount("ほ"))
	assert.Equal(t, DefaultStrokeCount, table.StrokeCount("x"))
}

func TestUnknown(t *testing.T) {
	table := NewHiragana()
	_, ok := table.Index("ア")
	assert.False(t, ok)
	_, ok = table.At(-1)
	assert.False(t, ok)
	_, ok = table.At(46)
	assert.False(t, ok)
}

func TestCharactersIsCopy(t *testing.T) {
	table := NewHiragana()
	chars := table.Characters()
	chars[0] = "z"
	assert.Equal(t, "あ", table.Characters()[0])

	m := table.IndexMap()
	m["あ"] = 99
	i, _ := table.Index("あ")
	assert.Equal(t, 0, i)
}

func TestWriteLabels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewKana().WriteLabels(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 92)
	assert.Equal(t, "あ", lines[0])
	assert.Equal(t, "ン", lines[91])
}

func TestByName(t *testing.T) {
	table, err := ByName("kana")
	require.NoError(t, err)
	assert.Equal(t, 92, table.Len())
	_, err = ByName("kanji")
	assert.Error(t, err)
}
