package main

import (
	"fmt"
	"time"

	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/classifier/forest"
	"github.com/juruen/kanatrain/classifier/mlp"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/evaluate"
	"github.com/juruen/kanatrain/log"
	flag "github.com/ogier/pflag"
)

func (s *splitFlags) register(flagSet *flag.FlagSet, testSize float64) {
	flagSet.Float64Var(&s.testSize, "test-size", testSize, "held out fraction")
	flagSet.BoolVar(&s.stratify, "stratify", false, "keep class proportions in the split")
	flagSet.BoolVarP(&s.report, "report", "r", false, "print the per class report")
}

// score prints the held out accuracy and, when asked, the class report.
func (c *Ctxt) score(model classifier.Classifier, test *dataset.Examples, report bool) float64 {
	pred := classifier.PredictAll(model, test.X)
	acc := evaluate.Accuracy(test.Y, pred)
	printAccuracy(c.out, "Model accuracy", acc)
	if report {
		header(c.out, "Classification report:")
		if _, err := evaluate.NewReport(test.Y, pred, c.table.Characters()).WriteTo(c.out); err != nil {
			log.Error.Printf("can't write report: %v", err)
		}
	}
	return acc
}

func trainForestCmd() *Cmd {
	return &Cmd{
		Name: "train-forest",
		Help: "train the random forest on feature vectors",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("train-forest")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			synthetic := flagSet.BoolP("synthetic", "s", false, "ignore the dataset and synthesize vectors")
			perChar := flagSet.IntP("per-char", "n", c.cfg.FeaturesPerChar, "synthetic vectors per character")
			estimators := flagSet.Int("estimators", c.cfg.Forest.Estimators, "number of trees")
			maxDepth := flagSet.Int("max-depth", c.cfg.Forest.MaxDepth, "maximum tree depth, 0 for unlimited")
			out := flagSet.StringP("out", "o", c.cfg.Forest.ModelPath, "model file")
			var split splitFlags
			split.register(flagSet, c.cfg.TestSize)
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			ex, err := c.examples(source{
				path:      *path,
				payload:   dataset.PayloadFeatures,
				synthetic: *synthetic,
				perChar:   *perChar,
				seed:      c.cfg.Seed,
			})
			if err != nil {
				return err
			}
			train, test, err := split.split(ex, c.cfg.Seed)
			if err != nil {
				return err
			}

			cfg := c.cfg.ForestConfig()
			cfg.NEstimators = *estimators
			cfg.MaxDepth = *maxDepth

			header(c.out, "Training random forest: %d trees on %d examples", cfg.NEstimators, train.Len())
			start := time.Now()
			model, err := forest.Train(c.ctx, train.X, train.Y, c.table.Len(), cfg)
			if err != nil {
				return err
			}
			dimColor.Fprintf(c.out, "trained in %s\n", elapsed(start))

			c.score(model, test, split.report)

			model.Characters = c.table.Characters()
			if err := forest.Save(*out, model); err != nil {
				return err
			}
			successColor.Fprintf(c.out, "Model saved to %s\n", *out)
			return nil
		},
	}
}

func trainNetCmd() *Cmd {
	return &Cmd{
		Name: "train-net",
		Help: "train the dense network on feature vectors or images",
		Func: func(c *Ctxt, args []string) error {
			nc := c.cfg.NetworkConfig()
			hidden := intList(nc.Hidden)

			flagSet := c.flagSet("train-net")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			payload := flagSet.StringP("payload", "p", c.cfg.Network.Payload, "training input: features or image")
			synthetic := flagSet.BoolP("synthetic", "s", false, "ignore the dataset and synthesize samples")
			perChar := flagSet.IntP("per-char", "n", c.cfg.FeaturesPerChar, "synthetic samples per character")
			flagSet.Var(&hidden, "hidden", "hidden layer sizes, comma separated")
			epochs := flagSet.IntP("epochs", "e", nc.Epochs, "training epochs")
			batch := flagSet.IntP("batch", "b", nc.BatchSize, "mini batch size")
			rate := flagSet.Float64("lr", nc.LearningRate, "learning rate")
			out := flagSet.StringP("out", "o", c.cfg.Network.ModelPath, "model file")
			var split splitFlags
			split.register(flagSet, c.cfg.TestSize)
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			kind, err := dataset.ParsePayload(*payload)
			if err != nil {
				return err
			}
			ex, err := c.examples(source{
				path:      *path,
				payload:   kind,
				synthetic: *synthetic,
				perChar:   *perChar,
				seed:      c.cfg.Seed,
			})
			if err != nil {
				return err
			}
			train, test, err := split.split(ex, c.cfg.Seed)
			if err != nil {
				return err
			}

			nc.Hidden = hidden
			nc.Epochs = *epochs
			nc.BatchSize = *batch
			nc.LearningRate = *rate

			header(c.out, "Training dense network %v on %d %s examples", []int(hidden), train.Len(), kind)
			start := time.Now()
			model, stats, err := mlp.Train(c.ctx, train.X, train.Y, c.table.Len(), nc)
			if err != nil {
				return err
			}
			for _, s := range stats {
				fmt.Fprintf(c.out, "  epoch %3d  cost %.4f  val cost %.4f  val acc ",
					s.Epoch, s.TrainCost, s.ValidationCost)
				scoreColor(s.ValidationAccuracy).Fprintf(c.out, "%.3f\n", s.ValidationAccuracy)
			}
			dimColor.Fprintf(c.out, "trained in %s\n", elapsed(start))

			c.score(model, test, split.report)

			if err := mlp.Save(*out, model); err != nil {
				return err
			}
			successColor.Fprintf(c.out, "Model saved to %s\n", *out)
			return nil
		},
	}
}
