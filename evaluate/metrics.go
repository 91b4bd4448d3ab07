package evaluate

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// Confusion returns m where m[t][p] counts samples of class t predicted as p.
func Confusion(yTrue, yPred []int, classes int) [][]int {
	m := make([][]int, classes)
	for i := range m {
		m[i] = make([]int, classes)
	}
	for i := range yTrue {
		m[yTrue[i]][yPred[i]]++
	}
	return m
}

type ClassReport struct {
	Class     int
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type Report struct {
	Classes        []ClassReport
	Accuracy       float64
	MacroPrecision float64
	MacroRecall    float64
	MacroF1        float64
	Support        int
}

// NewReport scores every class that occurs in yTrue or yPred. Undefined
// ratios count as zero.
func NewReport(yTrue, yPred []int, labels []string) *Report {
	classes := len(labels)
	for i := range yTrue {
		if yTrue[i] >= classes {
			classes = yTrue[i] + 1
		}
		if yPred[i] >= classes {
			classes = yPred[i] + 1
		}
	}
	m := Confusion(yTrue, yPred, classes)

	r := &Report{Accuracy: Accuracy(yTrue, yPred), Support: len(yTrue)}
	for c := 0; c < classes; c++ {
		tp := m[c][c]
		support, predicted := 0, 0
		for k := 0; k < classes; k++ {
			support += m[c][k]
			predicted += m[k][c]
		}
		if support == 0 && predicted == 0 {
			continue
		}

		cr := ClassReport{
			Class:     c,
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if c < len(labels) {
			cr.Label = labels[c]
		}
		if cr.Precision+cr.Recall > 0 {
			cr.F1 = 2 * cr.Precision * cr.Recall / (cr.Precision + cr.Recall)
		}
		r.Classes = append(r.Classes, cr)
	}

	if len(r.Classes) > 0 {
		for _, cr := range r.Classes {
			r.MacroPrecision += cr.Precision
			r.MacroRecall += cr.Recall
			r.MacroF1 += cr.F1
		}
		n := float64(len(r.Classes))
		r.MacroPrecision /= n
		r.MacroRecall /= n
		r.MacroF1 /= n
	}
	return r
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// WriteTo prints the report as an aligned table.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tprecision\trecall\tf1-score\tsupport\t")
	for _, c := range r.Classes {
		name := c.Label
		if name == "" {
			name = fmt.Sprint(c.Class)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", name, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintln(tw, "\t\t\t\t\t")
	fmt.Fprintf(tw, "accuracy\t\t\t%.2f\t%d\t\n", r.Accuracy, r.Support)
	fmt.Fprintf(tw, "macro avg\t%.2f\t%.2f\t%.2f\t%d\t\n", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Support)
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type Importance struct {
	Feature int
	Value   float64
}

// TopImportances returns the k largest importances, largest first.
func TopImportances(importances []float64, k int) []Importance {
	all := make([]Importance, len(importances))
	for i, v := range importances {
		all[i] = Importance{Feature: i, Value: v}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Value > all[j].Value
	})
	if k < len(all) {
		all = all[:k]
	}
	return all
}
