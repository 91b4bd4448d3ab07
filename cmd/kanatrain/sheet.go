package main

import (
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/sheet"
	"github.com/pkg/errors"
)

func sheetCmd() *Cmd {
	return &Cmd{
		Name: "sheet",
		Help: "render image samples into a PDF contact sheet",
		Func: func(c *Ctxt, args []string) error {
			flagSet := c.flagSet("sheet")
			path := flagSet.StringP("dataset", "d", c.cfg.Dataset, "dataset file")
			out := flagSet.StringP("out", "o", "samples.pdf", "output PDF")
			columns := flagSet.Int("columns", 8, "samples per row")
			generate := flagSet.IntP("generate", "g", 0, "render this many fresh samples per character instead of reading the dataset")
			title := flagSet.String("title", "Kana samples", "sheet title")
			pageNumbers := flagSet.BoolP("page-numbers", "p", true, "add page numbers")
			if err := flagSet.Parse(args); err != nil {
				return err
			}
			if *columns <= 0 {
				return errors.Errorf("invalid column count: %d", *columns)
			}

			ds := dataset.New()
			if *generate > 0 {
				samples, err := c.generator().Generate(c.ctx, *generate)
				if err != nil {
					return err
				}
				ds.Append(samples...)
			} else {
				var err error
				if ds, err = dataset.Load(*path); err != nil {
					return err
				}
			}

			rows := sheet.RowsFromDataset(ds, c.table, *columns)
			if len(rows) == 0 {
				return errors.New("no image samples to render")
			}

			gen := sheet.CreateSheetGenerator(*out, sheet.SheetOptions{
				Columns:        *columns,
				AddPageNumbers: *pageNumbers,
				Title:          *title,
			})
			if err := gen.Generate(rows); err != nil {
				return errors.Wrap(err, "can't write sheet")
			}
			successColor.Fprintf(c.out, "wrote %d characters to %s\n", len(rows), *out)
			return nil
		},
	}
}
