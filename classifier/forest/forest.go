// Package forest implements a random forest of CART trees that can be
// exported to JSON and rebuilt exactly from it.
package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoSamples = errors.New("no training samples")
	ErrShape     = errors.New("inconsistent training data")
)

type Config struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
	Workers         int
}

func DefaultConfig() Config {
	return Config{
		NEstimators:     100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		Seed:            42,
		Workers:         runtime.NumCPU(),
	}
}

type Forest struct {
	NEstimators int
	// MaxDepth is the configured limit, 0 means unlimited
	MaxDepth    int
	NClasses    int
	NFeatures   int
	Trees       []*Tree
	Importances []float64
	// Characters maps class indices to labels, may be empty
	Characters []string
}

var _ classifier.Classifier = (*Forest)(nil)

func (f *Forest) NumClasses() int  { return f.NClasses }
func (f *Forest) NumFeatures() int { return f.NFeatures }

// Predict averages the leaf distributions of all trees.
func (f *Forest) Predict(x []float64) []float64 {
	p := make([]float64, f.NClasses)
	if len(f.Trees) == 0 {
		return p
	}
	for _, t := range f.Trees {
		for c, v := range t.Predict(x) {
			p[c] += v
		}
	}
	for c := range p {
		p[c] /= float64(len(f.Trees))
	}
	return p
}

// Train grows cfg.NEstimators trees on bootstrap samples of (x, y). Each
// tree draws from its own seed, so the result does not depend on Workers.
func Train(ctx context.Context, x [][]float64, y []int, numClasses int, cfg Config) (*Forest, error) {
	if len(x) == 0 {
		return nil, ErrNoSamples
	}
	if err := validate(x, y, numClasses); err != nil {
		return nil, err
	}
	if cfg.NEstimators <= 0 {
		return nil, fmt.Errorf("n_estimators must be positive, got %d", cfg.NEstimators)
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	maxDepth := cfg.MaxDepth
	if maxDepth <= 0 {
		maxDepth = math.MaxInt32
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	numFeatures := len(x[0])
	maxFeatures := int(math.Sqrt(float64(numFeatures)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	seeds := make([]int64, cfg.NEstimators)
	rnd := rand.New(rand.NewSource(cfg.Seed))
	for i := range seeds {
		seeds[i] = rnd.Int63()
	}

	log.Info.Printf("training %d trees on %d samples, %d features", cfg.NEstimators, len(x), numFeatures)

	trees := make([]*Tree, cfg.NEstimators)
	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range trees {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				b := &builder{
					x:           x,
					y:           y,
					numClasses:  numClasses,
					maxDepth:    maxDepth,
					minSplit:    cfg.MinSamplesSplit,
					maxFeatures: maxFeatures,
					rnd:         rand.New(rand.NewSource(seeds[i])),
				}
				trees[i] = b.build(bootstrap(b.rnd, len(x)))
				log.Trace.Printf("tree %d: depth %d, %d leaves", i, trees[i].Depth(), trees[i].Leaves())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Forest{
		NEstimators: cfg.NEstimators,
		MaxDepth:    cfg.MaxDepth,
		NClasses:    numClasses,
		NFeatures:   numFeatures,
		Trees:       trees,
	}
	f.Importances = f.importances()
	return f, nil
}

func (f *Forest) importances() []float64 {
	imp := make([]float64, f.NFeatures)
	for _, t := range f.Trees {
		for i, v := range t.Importances {
			imp[i] += v
		}
	}
	normalize(imp)
	return imp
}

func bootstrap(rnd *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rnd.Intn(n)
	}
	return idx
}

func validate(x [][]float64, y []int, numClasses int) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return fmt.Errorf("%w: no features", ErrShape)
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), width)
		}
		if y[i] < 0 || y[i] >= numClasses {
			return fmt.Errorf("%w: label %d out of range", ErrShape, y[i])
		}
	}
	return nil
}
