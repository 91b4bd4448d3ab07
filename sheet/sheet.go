// Package sheet lays rendered samples out on PDF pages for visual checks.
package sheet

import (
	"fmt"
	"image"
	"math"

	"github.com/juruen/kanatrain/alphabet"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/log"
	"github.com/unidoc/unipdf/v3/creator"
	"golang.org/x/image/draw"
)

const (
	margin      = 36.0
	labelWidth  = 72.0
	rowGap      = 6.0
	titleHeight = 24.0
)

type SheetOptions struct {
	Columns        int
	AddPageNumbers bool
	Title          string
}

// Row is one character and the samples drawn for it.
type Row struct {
	Character alphabet.Character
	Images    []image.Image
}

// Label names the row by index and code point. Standard PDF fonts have
// no kana glyphs.
func (r Row) Label() string {
	runes := []rune(r.Character.Value)
	if len(runes) == 0 {
		return fmt.Sprintf("#%d", r.Character.Index)
	}
	return fmt.Sprintf("#%d U+%04X", r.Character.Index, runes[0])
}

type SheetGenerator struct {
	outputFilePath string
	options        SheetOptions
}

func CreateSheetGenerator(outputFilePath string, options SheetOptions) *SheetGenerator {
	if options.Columns <= 0 {
		options.Columns = 8
	}
	return &SheetGenerator{outputFilePath: outputFilePath, options: options}
}

func (s *SheetGenerator) Generate(rows []Row) error {
	c := creator.New()
	c.SetPageSize(creator.PageSizeA4)

	cols := s.options.Columns
	cell := (c.Width() - 2*margin - labelWidth) / float64(cols)
	top := margin
	if s.options.Title != "" {
		top += titleHeight
	}
	perPage := int(math.Floor((c.Height() - top - margin) / (cell + rowGap)))
	if perPage < 1 {
		perPage = 1
	}

	if s.options.AddPageNumbers {
		c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
			p := c.NewParagraph(fmt.Sprintf("%d / %d", args.PageNum, args.TotalPages))
			p.SetFontSize(8)
			p.SetPos(block.Width()-margin-20, block.Height()-20)
			block.Draw(p)
		})
	}

	if len(rows) == 0 {
		c.NewPage()
	}

	for i, row := range rows {
		slot := i % perPage
		if slot == 0 {
			c.NewPage()
			if s.options.Title != "" {
				p := c.NewParagraph(s.options.Title)
				p.SetFontSize(14)
				p.SetPos(margin, margin)
				if err := c.Draw(p); err != nil {
					return err
				}
			}
		}

		y := top + float64(slot)*(cell+rowGap)
		label := c.NewParagraph(row.Label())
		label.SetFontSize(9)
		label.SetPos(margin, y+cell/2-5)
		if err := c.Draw(label); err != nil {
			return err
		}

		for j, img := range row.Images {
			if j >= cols {
				break
			}
			pimg, err := c.NewImageFromGoImage(toRGBA(img))
			if err != nil {
				return err
			}
			pimg.ScaleToWidth(cell - 2)
			pimg.SetPos(margin+labelWidth+float64(j)*cell, y)
			if err := c.Draw(pimg); err != nil {
				return err
			}
		}
	}

	log.Info.Printf("writing contact sheet %s (%d rows)", s.outputFilePath, len(rows))
	return c.WriteToFile(s.outputFilePath)
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// RowsFromDataset picks up to perChar decodable image samples for each
// character of table, in table order. Characters without images are
// skipped.
func RowsFromDataset(ds *dataset.Dataset, table *alphabet.Table, perChar int) []Row {
	byChar := make(map[string][]image.Image)
	for _, s := range ds.Data {
		if !s.HasImage() || len(byChar[s.Character]) >= perChar {
			continue
		}
		img, err := dataset.DecodeImage(s.ImageData)
		if err != nil {
			log.Trace.Printf("skipping %s sample: %v", s.Character, err)
			continue
		}
		byChar[s.Character] = append(byChar[s.Character], img)
	}

	var rows []Row
	for _, ch := range table.All() {
		if imgs := byChar[ch.Value]; len(imgs) > 0 {
			rows = append(rows, Row{Character: ch, Images: imgs})
		}
	}
	return rows
}
