package chem

import (
	"sort"
	"strconv"
	"strings"
)

// Descriptor column names shared by the feature table and the predictor.
const (
	MolecularWeight = "MolecularWeight"
	AlogP           = "AlogP"
)

// DescriptorNames lists the descriptor columns in feature order.
var DescriptorNames = []string{MolecularWeight, AlogP}

// Descriptors is the per-compound feature record.
type Descriptors struct {
	MolecularWeight float64
	AlogP           float64
}

// Values returns the descriptors in DescriptorNames order.
func (d Descriptors) Values() []float64 {
	return []float64{d.MolecularWeight, d.AlogP}
}

// Calculate computes descriptors for m. It returns nil when m is nil.
func Calculate(m *Molecule) *Descriptors {
	if m == nil {
		return nil
	}
	return &Descriptors{
		MolecularWeight: MolWt(m),
		AlogP:           MolLogP(m),
	}
}

// FromSMILES parses s and computes its descriptors, nil when s is unparsable.
func FromSMILES(s string) *Descriptors {
	return Calculate(MolFromSMILES(s))
}

// MolWt is the average molecular weight including all hydrogens.
func MolWt(m *Molecule) float64 {
	h := elements["H"].Weight
	total := 0.0
	for _, a := range m.Atoms {
		if a.Element == "*" {
			continue
		}
		total += atomicWeight(a.Element, a.Isotope)
		total += float64(a.ImplicitH+a.ExplicitH) * h
	}
	return total
}

// hillFormula orders C, then H, then the rest alphabetically. Without
// carbon everything is alphabetical.
func hillFormula(counts map[string]int) string {
	var syms []string
	for s, n := range counts {
		if n > 0 {
			syms = append(syms, s)
		}
	}
	_, hasC := counts["C"]
	sort.Slice(syms, func(i, j int) bool {
		if hasC {
			ri, rj := hillRank(syms[i]), hillRank(syms[j])
			if ri != rj {
				return ri < rj
			}
		}
		return syms[i] < syms[j]
	})
	var sb strings.Builder
	for _, s := range syms {
		sb.WriteString(s)
		if n := counts[s]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

func hillRank(s string) int {
	switch s {
	case "C":
		return 0
	case "H":
		return 1
	default:
		return 2
	}
}
