package mlp

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/juruen/kanatrain/log"
)

var ErrNoSamples = errors.New("no training samples")

type Config struct {
	Hidden       []int
	Epochs       int
	BatchSize    int
	Concurrency  int
	LearningRate float64
	// Validation is the fraction of samples held out for per-epoch cost
	Validation float64
	Seed       int64
}

func DefaultConfig() Config {
	return Config{
		Hidden:       []int{128},
		Epochs:       30,
		BatchSize:    32,
		Concurrency:  runtime.NumCPU(),
		LearningRate: DefaultLearningRate,
		Validation:   0.2,
		Seed:         42,
	}
}

type EpochStats struct {
	Epoch              int
	TrainCost          float64
	ValidationCost     float64
	ValidationAccuracy float64
}

type sample struct {
	x []float64
	y int
}

// Train fits a new network to (x, y). With Concurrency above one the
// per-batch gradients are summed in scheduling order, so results can
// differ in the last bits between runs.
func Train(ctx context.Context, x [][]float64, y []int, numClasses int, cfg Config) (*Network, []EpochStats, error) {
	log.Info.Println("Train started")
	defer log.Info.Println("Train finished")

	if len(x) == 0 {
		return nil, nil, ErrNoSamples
	}
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("%d rows, %d labels", len(x), len(y))
	}
	for i, label := range y {
		if label < 0 || label >= numClasses {
			return nil, nil, fmt.Errorf("label %d out of range", label)
		}
		if len(x[i]) != len(x[0]) {
			return nil, nil, fmt.Errorf("row %d has %d features, want %d", i, len(x[i]), len(x[0]))
		}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultLearningRate
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	model := New(rnd, len(x[0]), cfg.Hidden, numClasses)

	samples := make([]sample, len(x))
	for i := range x {
		samples[i] = sample{x: x[i], y: y[i]}
	}
	shuffle(rnd, samples)

	validationSize := int(float64(len(samples)) * cfg.Validation)
	if validationSize >= len(samples) {
		validationSize = len(samples) - 1
	}
	validation := samples[:validationSize]
	training := samples[validationSize:]

	models := make([]*Network, cfg.Concurrency)
	models[0] = model
	for i := 1; i < len(models); i++ {
		models[i] = model.ThreadCopy()
	}

	var history []EpochStats
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		shuffle(rnd, training)
		trainCost := 0.0
		for i := 0; i < len(training); i += cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return nil, history, err
			}
			end := i + cfg.BatchSize
			if end > len(training) {
				end = len(training)
			}
			trainCost += trainBatch(training[i:end], models)
			applyGradients(models, cfg.LearningRate)
		}

		stats := EpochStats{Epoch: epoch, TrainCost: trainCost / float64(len(training))}
		if len(validation) > 0 {
			stats.ValidationCost, stats.ValidationAccuracy = evaluate(validation, models)
		}
		history = append(history, stats)
		log.Info.Printf("epoch %d: cost %.4f, validation cost %.4f, accuracy %.3f",
			epoch, stats.TrainCost, stats.ValidationCost, stats.ValidationAccuracy)
	}

	return model, history, nil
}

func shuffle(rnd *rand.Rand, samples []sample) {
	rnd.Shuffle(len(samples), func(i, j int) {
		samples[i], samples[j] = samples[j], samples[i]
	})
}

func trainBatch(samples []sample, models []*Network) float64 {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	var mu = &sync.Mutex{}
	var total float64
	for i := range models {
		wg.Add(1)
		go func(m *Network) {
			defer wg.Done()
			var local float64
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(samples) {
					break
				}
				local += m.trainSample(samples[i].x, samples[i].y)
			}
			mu.Lock()
			total += local
			mu.Unlock()
		}(models[i])
	}
	wg.Wait()
	return total
}

func applyGradients(models []*Network, rate float64) {
	for i := 1; i < len(models); i++ {
		models[i].addGradients(models[0])
	}
	models[0].applyGradients(rate)
}

func evaluate(samples []sample, models []*Network) (float64, float64) {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	var mu = &sync.Mutex{}
	var totalCost float64
	var correct int
	for i := range models {
		wg.Add(1)
		go func(m *Network) {
			defer wg.Done()
			var localCost float64
			var localCorrect int
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(samples) {
					break
				}
				c, ok := m.cost(samples[i].x, samples[i].y)
				localCost += c
				if ok {
					localCorrect++
				}
			}
			mu.Lock()
			totalCost += localCost
			correct += localCorrect
			mu.Unlock()
		}(models[i])
	}
	wg.Wait()
	n := float64(len(samples))
	return totalCost / n, float64(correct) / n
}
