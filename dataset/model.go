package dataset

import (
	"fmt"
	"time"
)

const (
	// DefaultPath is the file the mobile app exports and the collector grows
	DefaultPath = "training_data_export.json"

	SourceSynthetic = "synthetic_generation"

	// TimestampLayout is the naive ISO8601 form the mobile app writes.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

type Sample struct {
	ID            string    `json:"id,omitempty"`
	Character     string    `json:"character"`
	Type          string    `json:"type"`
	IsCorrect     bool      `json:"isCorrect"`
	AccuracyScore float64   `json:"accuracyScore"`
	Timestamp     string    `json:"timestamp"`
	StrokeCount   int       `json:"strokeCount"`
	ImageData     string    `json:"imageData,omitempty"`
	Features      []float64 `json:"features,omitempty"`
}

type Metadata struct {
	TotalSamples int      `json:"totalSamples"`
	ExportDate   string   `json:"exportDate"`
	Characters   []string `json:"characters"`
	DataSource   string   `json:"dataSource"`
}

type Dataset struct {
	Metadata Metadata `json:"metadata"`
	Data     []Sample `json:"data"`
}

func New() *Dataset {
	return &Dataset{Data: []Sample{}}
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func (s *Sample) HasImage() bool {
	return s.ImageData != ""
}

func (s *Sample) HasFeatures() bool {
	return len(s.Features) > 0
}

func (d *Dataset) Len() int {
	return len(d.Data)
}

// Append concatenates samples; duplicates are kept.
func (d *Dataset) Append(samples ...Sample) {
	d.Data = append(d.Data, samples...)
}

// PayloadCounts counts the samples carrying an image and those carrying
// a feature vector.
func (d *Dataset) PayloadCounts() (images, features int) {
	for i := range d.Data {
		if d.Data[i].HasImage() {
			images++
		}
		if d.Data[i].HasFeatures() {
			features++
		}
	}
	return images, features
}

// CheckPayload fails with ErrMixedPayload when d already holds samples of
// the other payload kind.
func (d *Dataset) CheckPayload(p Payload) error {
	images, features := d.PayloadCounts()
	if (p == PayloadImage && features > 0) || (p == PayloadFeatures && images > 0) {
		return fmt.Errorf("%w: adding %s samples to %d image and %d feature samples",
			ErrMixedPayload, p, images, features)
	}
	return nil
}

// Characters lists the distinct characters in order of first appearance.
func (d *Dataset) Characters() []string {
	seen := make(map[string]bool)
	chars := make([]string, 0)
	for _, s := range d.Data {
		if seen[s.Character] {
			continue
		}
		seen[s.Character] = true
		chars = append(chars, s.Character)
	}
	return chars
}

// CountByCharacter returns the number of samples per character.
func (d *Dataset) CountByCharacter() map[string]int {
	counts := make(map[string]int)
	for _, s := range d.Data {
		counts[s.Character]++
	}
	return counts
}

// RecomputeMetadata rebuilds the metadata block from the samples.
func (d *Dataset) RecomputeMetadata(source string, now time.Time) {
	d.Metadata = Metadata{
		TotalSamples: len(d.Data),
		ExportDate:   FormatTimestamp(now),
		Characters:   d.Characters(),
		DataSource:   source,
	}
}

// SamplesNeeded returns how many samples per character should be
// generated to grow a dataset of existing samples towards target. Zero
// means the dataset is already large enough.
func SamplesNeeded(existing, alphabetLen, target int) int {
	if existing >= target || alphabetLen <= 0 {
		return 0
	}
	n := (target - existing) / alphabetLen
	if n < 20 {
		n = 20
	}
	return n
}
