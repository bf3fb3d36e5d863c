package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/potency-cli/internal/chem"
)

// Drop reasons recorded by Assemble.
const (
	DropSMILES = "smiles"
	DropTarget = "target"
)

// Drop records a data row excluded from the feature table.
type Drop struct {
	Row    int // 1-based data row
	Reason string
	Value  string
}

// FeatureTable holds the descriptor matrix and its aligned target.
type FeatureTable struct {
	Columns    []string
	X          *mat.Dense // nil when no row survived
	Y          []float64
	SourceRows []int // 1-based data row per feature row

	Total         int
	DroppedSMILES int
	DroppedTarget int
	Dropped       []Drop
}

// Len returns the number of retained rows.
func (ft *FeatureTable) Len() int { return len(ft.Y) }

// Assemble computes descriptors for every row and keeps the rows that have
// both descriptors and a finite numeric target.
func Assemble(t *Table, opt Options) *FeatureTable {
	ft := &FeatureTable{
		Columns: append([]string(nil), chem.DescriptorNames...),
		Total:   len(t.Rows),
	}
	var data []float64
	for i := range t.Rows {
		d := chem.FromSMILES(t.SMILES(i))
		if d == nil {
			ft.DroppedSMILES++
			ft.Dropped = append(ft.Dropped, Drop{Row: i + 1, Reason: DropSMILES, Value: t.SMILES(i)})
			continue
		}
		y, ok := ParseNumber(t.Target(i), opt)
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			ft.DroppedTarget++
			ft.Dropped = append(ft.Dropped, Drop{Row: i + 1, Reason: DropTarget, Value: t.Target(i)})
			continue
		}
		data = append(data, d.Values()...)
		ft.Y = append(ft.Y, y)
		ft.SourceRows = append(ft.SourceRows, i+1)
	}
	if n := len(ft.Y); n > 0 {
		ft.X = mat.NewDense(n, len(ft.Columns), data)
	}
	return ft
}
