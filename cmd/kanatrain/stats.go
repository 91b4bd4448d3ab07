package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/juruen/kanatrain/dataset"
)

func statsCmd() *Cmd {
	return &Cmd{
		Name: "stats",
		Help: "summarize a dataset file",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("stats")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			verbose := flagSet.BoolP("verbose", "v", false, "list every character")
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			ds, err := dataset.Load(*path)
			if err != nil {
				return err
			}

			images, vectors := ds.PayloadCounts()
			var unknown int
			for _, s := range ds.Data {
				if !c.table.Contains(s.Character) {
					unknown++
				}
			}
			counts := ds.CountByCharacter()

			header(c.out, "%s", *path)
			fmt.Fprintf(c.out, "samples:     %d\n", ds.Len())
			fmt.Fprintf(c.out, "images:      %d\n", images)
			fmt.Fprintf(c.out, "features:    %d\n", vectors)
			fmt.Fprintf(c.out, "characters:  %d of %d\n", len(counts), c.table.Len())
			if unknown > 0 {
				warnColor.Fprintf(c.out, "unknown:     %d\n", unknown)
			}
			if ds.Metadata.ExportDate != "" {
				fmt.Fprintf(c.out, "exported:    %s (%s)\n", ds.Metadata.ExportDate, ds.Metadata.DataSource)
			}
			if n := dataset.SamplesNeeded(ds.Len(), c.table.Len(), c.cfg.TargetSamples); n > 0 {
				fmt.Fprintf(c.out, "to reach %d: %d more per character\n", c.cfg.TargetSamples, n)
			}

			if *verbose {
				w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				for _, ch := range c.table.All() {
					fmt.Fprintf(w, "%s\t%d\t%d\n", ch.Value, ch.Index, counts[ch.Value])
				}
				return w.Flush()
			}
			return nil
		},
	}
}
