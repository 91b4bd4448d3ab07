package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/juruen/kanatrain/classifier"
	"github.com/juruen/kanatrain/dataset"
	"github.com/juruen/kanatrain/evaluate"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen, color.Bold)
)

func printError(w io.Writer, err error) {
	errorColor.Fprintf(w, "error: %v\n", err)
}

func header(w io.Writer, format string, a ...interface{}) {
	headerColor.Fprintf(w, format+"\n", a...)
}

// scoreColor picks green, yellow or red for a ratio in [0, 1].
func scoreColor(v float64) *color.Color {
	switch {
	case v >= 0.8:
		return okColor
	case v >= 0.5:
		return warnColor
	}
	return errorColor
}

func printAccuracy(w io.Writer, label string, acc float64) {
	fmt.Fprintf(w, "%s: ", label)
	scoreColor(acc).Fprintf(w, "%.3f\n", acc)
}

func printDrops(w io.Writer, report *dataset.DropReport) {
	if report == nil || len(report.Dropped) == 0 {
		return
	}
	warnColor.Fprintf(w, "dropped %d of %d samples: %s\n", len(report.Dropped), report.Inspected, report)
}

func printImportances(w io.Writer, top []evaluate.Importance) {
	header(w, "Top %d most important features:", len(top))
	for i, imp := range top {
		fmt.Fprintf(w, "  %2d. Feature %d: %.4f\n", i+1, imp.Feature, imp.Value)
	}
}

// printPredictions shows, for the first example of each of the first
// limit classes, the predicted label and its confidence.
func printPredictions(w io.Writer, c *Ctxt, model classifier.Classifier, ex *dataset.Examples, limit int) {
	header(w, "Testing character predictions:")
	seen := make(map[int]bool)
	for i, y := range ex.Y {
		if y >= limit || seen[y] {
			continue
		}
		seen[y] = true

		p := model.Predict(ex.X[i])
		best := classifier.Argmax(p)
		want, _ := c.table.At(y)
		got, _ := c.table.At(best)

		line := fmt.Sprintf("  %s -> %s (confidence: %.3f)", want.Value, got.Value, p[best])
		if best == y {
			okColor.Fprintln(w, line)
		} else {
			warnColor.Fprintln(w, line)
		}
	}
	if len(seen) == 0 {
		dimColor.Fprintln(w, "  no examples")
	}
}
