package main

import (
	"math/rand"
	"time"

	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/evaluate"
	"github.com/juruen/kanatrain/features"
	"github.com/juruen/kanatrain/log"
	"github.com/juruen/kanatrain/synth"
	"github.com/pkg/errors"
)

// source selects where training examples come from.
type source struct {
	path      string
	payload   dataset.Payload
	synthetic bool
	perChar   int
	seed      int64
}

// examples resolves a source into a labelled matrix. A dataset without
// usable samples falls back to synthetic data.
func (c *Ctxt) examples(src source) (*dataset.Examples, error) {
	if !src.synthetic {
		ds, err := dataset.Load(src.path)
		if err != nil {
			return nil, err
		}
		opts := dataset.DecodeOptions{
			Payload:   src.payload,
			InputSize: c.cfg.InputSize,
		}
		if src.payload == dataset.PayloadFeatures {
			opts.FeatureLen = features.DefaultLength
		}
		ex, report, err := dataset.Decode(ds, c.table, opts)
		if err != nil {
			return nil, err
		}
		printDrops(c.errOut, report)
		if ex.Len() > 0 {
			log.Info.Printf("using %d %s examples from %s", ex.Len(), src.payload, src.path)
			return ex, nil
		}
		log.Warning.Printf("no usable %s samples in %s, using synthetic data", src.payload, src.path)
	}
	return c.synthetic(src.payload, src.perChar, src.seed)
}

func (c *Ctxt) synthetic(payload dataset.Payload, perChar int, seed int64) (*dataset.Examples, error) {
	if perChar <= 0 {
		return nil, errors.Errorf("invalid samples per character: %d", perChar)
	}

	if payload == dataset.PayloadFeatures {
		rnd := rand.New(rand.NewSource(seed))
		x, y := features.New(c.table).Matrix(rnd, perChar)
		log.Info.Printf("synthesized %d feature vectors", len(y))
		return &dataset.Examples{X: x, Y: y}, nil
	}

	gen := c.generator()
	gen.Seed = seed
	samples, err := gen.Generate(c.ctx, perChar)
	if err != nil {
		return nil, err
	}
	ds := dataset.New()
	ds.Append(samples...)
	ex, _, err := dataset.Decode(ds, c.table, dataset.DecodeOptions{
		Payload:   dataset.PayloadImage,
		InputSize: c.cfg.InputSize,
		Strict:    true,
	})
	return ex, err
}

func (c *Ctxt) generator() *synth.Generator {
	fonts := c.cfg.FontChain().Load()
	if fonts.Builtin() {
		warnColor.Fprintln(c.errOut, "no font with kana coverage found, using the builtin face")
	}
	log.Trace.Printf("font: %s", fonts.Origin)
	return &synth.Generator{
		Table:   c.table,
		Fonts:   fonts,
		Size:    c.cfg.InputSize,
		Seed:    c.cfg.Seed,
		Workers: int64(c.cfg.Workers),
	}
}

// splitFlags are shared by the training commands.
type splitFlags struct {
	testSize float64
	stratify bool
	report   bool
}

func (s *splitFlags) split(ex *dataset.Examples, seed int64) (train, test *dataset.Examples, err error) {
	if !evaluate.ValidTestFraction(s.testSize) {
		return nil, nil, errors.Errorf("test size must be in (0, 1), got %v", s.testSize)
	}
	trainIdx, testIdx := evaluate.Split(ex.Y, s.testSize, seed, s.stratify)
	if len(trainIdx) == 0 || len(testIdx) == 0 {
		return nil, nil, errors.Errorf("not enough examples to split: %d", ex.Len())
	}
	return ex.Subset(trainIdx), ex.Subset(testIdx), nil
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}

func newFeatureSamples(c *Ctxt, seed int64, perChar int) []dataset.Sample {
	rnd := rand.New(rand.NewSource(seed))
	return features.New(c.table).Samples(rnd, perChar, time.Now())
}
