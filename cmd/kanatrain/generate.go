package main

import (
	"fmt"

	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/log"
)

func generateCmd() *Cmd {
	return &Cmd{
		Name: "generate",
		Help: "render synthetic image samples into the dataset",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("generate")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			perChar := flagSet.IntP("per-char", "n", 0, "samples per character (default: enough to reach the target)")
			target := flagSet.IntP("target", "t", c.cfg.TargetSamples, "total samples the dataset should reach")
			seed := flagSet.Int64("seed", c.cfg.Seed, "random seed")
			if err := flagSet.Parse(args); err != nil {
				return err
			}
			if flagSet.NArg() > 0 {
				return fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
			}

			ds, err := dataset.Load(*path)
			if err != nil {
				return err
			}
			if err := ds.CheckPayload(dataset.PayloadImage); err != nil {
				return err
			}

			n := *perChar
			if n <= 0 {
				n = dataset.SamplesNeeded(ds.Len(), c.table.Len(), *target)
			}
			if n == 0 {
				okColor.Fprintf(c.out, "dataset already has %d samples, target is %d\n", ds.Len(), *target)
				return nil
			}

			log.Info.Printf("Generating %d samples per character for %d characters", n, c.table.Len())
			gen := c.generator()
			gen.Seed = *seed
			samples, err := gen.Generate(c.ctx, n)
			if err != nil {
				return err
			}

			ds.Append(samples...)
			if err := dataset.Save(*path, ds, c.cfg.DataSource); err != nil {
				return err
			}
			successColor.Fprintf(c.out, "added %d samples to %s (total %d)\n", len(samples), *path, ds.Len())
			return nil
		},
	}
}

func featuresCmd() *Cmd {
	return &Cmd{
		Name: "features",
		Help: "append synthetic feature vector samples to the dataset",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("features")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			perChar := flagSet.IntP("per-char", "n", c.cfg.FeaturesPerChar, "vectors per character")
			seed := flagSet.Int64("seed", c.cfg.Seed, "random seed")
			if err := flagSet.Parse(args); err != nil {
				return err
			}
			if *perChar <= 0 {
				return fmt.Errorf("invalid samples per character: %d", *perChar)
			}

			samples := newFeatureSamples(c, *seed, *perChar)
			ds, err := dataset.Merge(*path, samples, c.cfg.DataSource)
			if err != nil {
				return err
			}
			successColor.Fprintf(c.out, "added %d feature samples to %s (total %d)\n", len(samples), *path, ds.Len())
			return nil
		},
	}
}
