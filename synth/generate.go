package synth

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/log"
	"golang.org/x/sync/semaphore"
)

const (
	minAccuracy = 80.0
	maxAccuracy = 100.0

	// seedStride keeps per-character streams apart
	seedStride = 7919
)

// Generator renders image samples for every character of a table.
type Generator struct {
	Table   *alphabet.Table
	Fonts   *FontSource
	Size    int
	Seed    int64
	Workers int64
	// Now stamps the samples, time.Now when nil
	Now func() time.Time
}

// Generate renders perChar variations of every character. Output is in
// table order then variation order and depends only on the seed.
func (g *Generator) Generate(ctx context.Context, perChar int) ([]dataset.Sample, error) {
	if perChar <= 0 {
		return []dataset.Sample{}, nil
	}

	workers := g.Workers
	if workers <= 0 {
		workers = 4
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}

	chars := g.Table.All()
	result := make([][]dataset.Sample, len(chars))

	var (
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	sem := semaphore.NewWeighted(workers)
	for i, ch := range chars {
		if err := sem.Acquire(ctx, 1); err != nil {
			setErr(err)
			break
		}
		go func(i int, ch alphabet.Character) {
			defer sem.Release(1)
			samples, err := g.character(ctx, ch, perChar, now)
			if err != nil {
				log.Trace.Printf("can't render %s: %v", ch.Value, err)
				setErr(err)
				return
			}
			result[i] = samples
		}(i, ch)
	}

	// wait for the stragglers
	if err := sem.Acquire(context.Background(), workers); err != nil {
		log.Trace.Printf("failed to acquire semaphore: %v", err)
	}

	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]dataset.Sample, 0, len(chars)*perChar)
	for _, s := range result {
		out = append(out, s...)
	}
	log.Info.Printf("generated %d samples for %d characters", len(out), len(chars))
	return out, nil
}

func (g *Generator) character(ctx context.Context, ch alphabet.Character, perChar int, now func() time.Time) ([]dataset.Sample, error) {
	rnd := rand.New(rand.NewSource(g.Seed + int64(ch.Index)*seedStride))
	r := NewRenderer(g.Fonts, g.Size)
	defer r.Close()

	samples := make([]dataset.Sample, 0, perChar)
	for v := 0; v < perChar; v++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img := r.Render(rnd, ch.Value, v)
		data, err := EncodePNG(img)
		if err != nil {
			return nil, err
		}

		id, err := uuid.NewRandomFromReader(rnd)
		if err != nil {
			return nil, err
		}

		samples = append(samples, dataset.Sample{
			ID:            id.String(),
			Character:     ch.Value,
			Type:          string(ch.Script),
			IsCorrect:     true,
			AccuracyScore: minAccuracy + rnd.Float64()*(maxAccuracy-minAccuracy),
			Timestamp:     dataset.FormatTimestamp(now()),
			StrokeCount:   ch.StrokeCount,
			ImageData:     data,
		})
	}
	return samples, nil
}
