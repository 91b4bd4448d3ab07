package main

import (
	"bytes"

	"github.com/juruen/kanatrain/export"
	"github.com/juruen/kanatrain/util"
)

func labelsCmd() *Cmd {
	return &Cmd{
		Name: "labels",
		Help: "write the class labels file, or print it with --out=-",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("labels")
			out := flagSet.StringP("out", "o", export.LabelsFile, "labels file, - for stdout")
			if err := flagSet.Parse(args); err != nil {
				return err
			}

			if *out == "-" {
				return c.table.WriteLabels(c.out)
			}

			var buf bytes.Buffer
			if err := c.table.WriteLabels(&buf); err != nil {
				return err
			}
			if err := util.WriteFileAtomic(*out, buf.Bytes()); err != nil {
				return err
			}
			successColor.Fprintf(c.out, "Labels saved to %s (%d classes)\n", *out, c.table.Len())
			return nil
		},
	}
}
