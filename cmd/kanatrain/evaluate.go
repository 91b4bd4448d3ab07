package main

import (
	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/evaluate"
)

const predictionClasses = 10

func evaluateCmd() *Cmd {
	return &Cmd{
		Name: "evaluate",
		Help: "score a saved model, training one when it is missing",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("evaluate")
			kind := flagSet.StringP("model", "m", modelForest, "model kind: forest or net")
			path := flagSet.String("path", "", "model file (default from config)")
			dsPath := flagSet.StringP("dataset", "d", "", "score against this dataset instead of synthetic data")
			perChar := flagSet.IntP("per-char", "n", 20, "synthetic samples per character")
			seed := flagSet.Int64("seed", c.cfg.Seed+1, "seed for the synthetic test data")
			report := flagSet.BoolP("report", "r", false, "print the per class report")
			top := flagSet.Int("top", 10, "feature importances to show")
			noTrain := flagSet.Bool("no-train", false, "fail instead of training a missing model")
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			payload, err := dataset.ParsePayload(c.cfg.Network.Payload)
			if err != nil {
				return err
			}
			model, err := c.loadModel(*kind, *path, payload, !*noTrain)
			if err != nil {
				return err
			}

			ex, err := c.examples(source{
				path:      *dsPath,
				payload:   c.payloadFor(model),
				synthetic: *dsPath == "",
				perChar:   *perChar,
				seed:      *seed,
			})
			if err != nil {
				return err
			}
			if ex.Len() > 0 {
				if err := classifier.Check(model, ex.X[0]); err != nil {
					return err
				}
			}

			header(c.out, "Evaluating %s model on %d examples", *kind, ex.Len())
			c.score(model, ex, *report)
			printPredictions(c.out, c, model, ex, predictionClasses)

			if model.forest != nil && *top > 0 {
				printImportances(c.out, evaluate.TopImportances(model.forest.Importances, *top))
			}
			return nil
		},
	}
}
