// Package alphabet holds the fixed kana label tables shared by data
// generation, training and export. A Table is built once and never
// mutated; label indices stay meaningful only while every component uses
// the same instance.
package alphabet

import (
	"bufio"
	"fmt"
	"io"
)

const (
	Hiragana Script = "hiragana"
	Katakana Script = "katakana"

	// DefaultStrokeCount is used for characters without a known count
	DefaultStrokeCount = 2
)

type Script string

type Character struct {
	Value       string
	Index       int
	StrokeCount int
	Script      Script
}

type Table struct {
	chars []Character
	index map[string]int
}

var hiraganaChars = []string{
	"あ", "い", "う", "え", "お",
	"か", "き", "く", "け", "こ",
	"さ", "し", "す", "せ", "そ",
	"た", "ち", "つ", "て", "と",
	"な", "に", "ぬ", "ね", "の",
	"は", "ひ", "ふ", "へ", "ほ",
	"ま", "み", "む", "め", "も",
	"や", "ゆ", "よ",
	"ら", "り", "る", "れ", "ろ",
	"わ", "を", "ん",
}

var katakanaChars = []string{
	"ア", "イ", "ウ", "エ", "オ",
	"カ", "キ", "ク", "ケ", "コ",
	"サ", "シ", "ス", "セ", "ソ",
	"タ", "チ", "ツ", "テ", "ト",
	"ナ", "ニ", "ヌ", "ネ", "ノ",
	"ハ", "ヒ", "フ", "ヘ", "ホ",
	"マ", "ミ", "ム", "メ", "モ",
	"ヤ", "ユ", "ヨ",
	"ラ", "リ", "ル", "レ", "ロ",
	"ワ", "ヲ", "ン",
}

// approximate, descriptive only
var hiraganaStrokes = map[string]int{
	"あ": 3, "い": 2, "う": 2, "え": 2, "お": 3,
	"か": 3, "き": 3, "く": 2, "け": 3, "こ": 2,
	"さ": 3, "し": 1, "す": 2, "せ": 3, "そ": 2,
	"た": 4, "ち": 2, "つ": 1, "て": 1, "と": 2,
	"な": 4, "に": 3, "ぬ": 2, "ね": 2, "の": 1,
	"は": 3, "ひ": 1, "ふ": 4, "へ": 1, "ほ": 4,
	"ま": 3, "み": 2, "む": 3, "め": 2, "も": 3,
	"や": 3, "ゆ": 2, "よ": 2,
	"ら": 2, "り": 2, "る": 1, "れ": 2, "ろ": 1,
	"わ": 2, "を": 3, "ん": 1,
}

// NewHiragana returns the 46 character hiragana table.
func NewHiragana() *Table {
	return build(hiraganaChars, nil)
}

// NewKana returns hiragana followed by katakana, 92 characters.
func NewKana() *Table {
	return build(hiraganaChars, katakanaChars)
}

// ByName resolves "hiragana" or "kana".
func ByName(name string) (*Table, error) {
	switch name {
	case "", "hiragana":
		return NewHiragana(), nil
	case "kana":
		return NewKana(), nil
	}
	return nil, fmt.Errorf("unknown alphabet %q", name)
}

func build(hira, kata []string) *Table {
	t := &Table{
		chars: make([]Character, 0, len(hira)+len(kata)),
		index: make(map[string]int, len(hira)+len(kata)),
	}
	add := func(v string, script Script) {
		strokes, ok := hiraganaStrokes[v]
		if !ok || script != Hiragana {
			strokes = DefaultStrokeCount
		}
		t.index[v] = len(t.chars)
		t.chars = append(t.chars, Character{
			Value:       v,
			Index:       len(t.chars),
			StrokeCount: strokes,
			Script:      script,
		})
	}
	for _, v := range hira {
		add(v, Hiragana)
	}
	for _, v := range kata {
		add(v, Katakana)
	}
	return t
}

func (t *Table) Len() int {
	return len(t.chars)
}

// Index returns the label of ch.
func (t *Table) Index(ch string) (int, bool) {
	i, ok := t.index[ch]
	return i, ok
}

func (t *Table) Contains(ch string) bool {
	_, ok := t.index[ch]
	return ok
}

// At returns the character with label i.
func (t *Table) At(i int) (Character, bool) {
	if i < 0 || i >= len(t.chars) {
		return Character{}, false
	}
	return t.chars[i], true
}

func (t *Table) Lookup(ch string) (Character, bool) {
	i, ok := t.index[ch]
	if !ok {
		return Character{}, false
	}
	return t.chars[i], true
}

// StrokeCount falls back to DefaultStrokeCount for unknown characters.
func (t *Table) StrokeCount(ch string) int {
	c, ok := t.Lookup(ch)
	if !ok {
		return DefaultStrokeCount
	}
	return c.StrokeCount
}

// Characters returns the values in label order. The slice is a copy.
func (t *Table) Characters() []string {
	out := make([]string, len(t.chars))
	for i, c := range t.chars {
		out[i] = c.Value
	}
	return out
}

func (t *Table) All() []Character {
	out := make([]Character, len(t.chars))
	copy(out, t.chars)
	return out
}

// IndexMap returns a fresh character to label map.
func (t *Table) IndexMap() map[string]int {
	m := make(map[string]int, len(t.index))
	for k, v := range t.index {
		m[k] = v
	}
	return m
}

// WriteLabels writes one character per line in label order.
func (t *Table) WriteLabels(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range t.chars {
		if _, err := bw.WriteString(c.Value + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
