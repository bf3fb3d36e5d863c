package dataset

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Report is a markdown-friendly summary of an assembled compound table.
type Report struct {
	Name          string
	Rows          int
	Kept          int
	DroppedSMILES int
	DroppedTarget int
	Cols          []ColumnSummary
	Model         *ModelSummary
	Warnings      []string
}

// ColumnSummary captures basic statistics of a numeric column.
type ColumnSummary struct {
	Name                string
	Count               int
	Min, Max, Mean, Std float64
}

// ModelSummary is the optional fitted-model section of a report.
type ModelSummary struct {
	Trees       int
	Train, Test int
	RMSE, R2    float64
	MAE         float64
	Importances []Importance
}

// Importance pairs a feature name with its normalized importance.
type Importance struct {
	Name  string
	Value float64
}

// Summarize builds a report over the retained rows of ft.
func Summarize(name string, ft *FeatureTable, targetName string) *Report {
	rep := &Report{
		Name:          name,
		Rows:          ft.Total,
		Kept:          ft.Len(),
		DroppedSMILES: ft.DroppedSMILES,
		DroppedTarget: ft.DroppedTarget,
	}
	if ft.X != nil {
		for j, c := range ft.Columns {
			rep.Cols = append(rep.Cols, summarize(c, mat.Col(nil, j, ft.X)))
		}
	}
	if len(ft.Y) > 0 {
		rep.Cols = append(rep.Cols, summarize(targetName, ft.Y))
	}
	if rep.Kept < 2 {
		rep.Warnings = append(rep.Warnings, "fewer than 2 usable rows; a model cannot be trained")
	}
	return rep
}

func summarize(name string, v []float64) ColumnSummary {
	s := ColumnSummary{Name: name, Count: len(v), Min: floats.Min(v), Max: floats.Max(v)}
	if len(v) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(v, nil)
	} else {
		s.Mean = v[0]
	}
	return s
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %s\n", humanize.Comma(int64(r.Rows))))
	b.WriteString(fmt.Sprintf("Usable: %s (dropped %s invalid SMILES, %s non-numeric targets)\n",
		humanize.Comma(int64(r.Kept)), humanize.Comma(int64(r.DroppedSMILES)), humanize.Comma(int64(r.DroppedTarget))))

	if len(r.Cols) > 0 {
		b.WriteString("\n[DESCRIPTORS]\n")
		for _, c := range r.Cols {
			b.WriteString(fmt.Sprintf("- %s: n=%d, min %.4g, max %.4g, mean %.4g, std %.4g\n",
				c.Name, c.Count, c.Min, c.Max, c.Mean, c.Std))
		}
	}
	if m := r.Model; m != nil {
		b.WriteString("\n[MODEL]\n")
		b.WriteString(fmt.Sprintf("Random forest: %d trees, train %s, test %s\n",
			m.Trees, humanize.Comma(int64(m.Train)), humanize.Comma(int64(m.Test))))
		b.WriteString(fmt.Sprintf("RMSE: %.4g, R-squared: %.4f, MAE: %.4g\n", m.RMSE, m.R2, m.MAE))
		if len(m.Importances) > 0 {
			b.WriteString("Feature importances:\n")
			for _, imp := range m.Importances {
				b.WriteString(fmt.Sprintf("- %s: %.3f\n", imp.Name, imp.Value))
			}
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}
