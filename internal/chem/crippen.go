package chem

// Wildman-Crippen atomic logP contributions (J. Chem. Inf. Comput. Sci.
// 1999, 39, 868). Types are assigned by the first matching rule per element,
// in the same order as the published table.
var crippenContrib = map[string]float64{
	"C1": 0.1441, "C2": 0.0000, "C3": -0.2035, "C4": -0.2051, "C5": -0.2783,
	"C6": 0.1551, "C7": 0.0017, "C8": 0.08452, "C9": -0.1444, "C10": -0.0516,
	"C11": 0.1193, "C12": -0.0967, "C13": -0.5443, "C14": 0.0000, "C15": 0.2450,
	"C16": 0.1980, "C17": 0.0000, "C18": 0.1581, "C19": 0.2955, "C20": 0.2713,
	"C21": 0.1360, "C22": 0.4619, "C23": 0.5437, "C24": 0.1893, "C25": -0.8186,
	"C26": 0.2640, "C27": 0.2148, "CS": 0.08129,
	"H1": 0.1230, "H2": -0.2677, "H3": 0.2142, "H4": 0.2980, "HS": 0.1125,
	"N1": -1.0190, "N2": -0.7096, "N3": -1.0270, "N4": -0.5188, "N5": 0.08387,
	"N6": 0.1836, "N7": -0.3187, "N8": -0.4458, "N9": 0.01508, "N10": -1.950,
	"N11": -0.3239, "N12": -1.119, "N13": -0.3396, "N14": 0.2887, "NS": -0.4806,
	"O1": 0.1552, "O2": -0.2893, "O3": -0.0684, "O4": -0.4195, "O5": 0.0335,
	"O6": -0.3339, "O7": -1.189, "O8": 0.1788, "O9": -0.1526, "O10": 0.1129,
	"O11": 0.4833, "O12": -1.326, "OS": -0.1188,
	"F": 0.4202, "Cl": 0.6895, "Br": 0.8456, "I": 0.8857, "Hal": -2.996,
	"P": 0.8612, "S1": 0.6482, "S2": -0.0024, "S3": 0.6237,
	"Me1": -0.3808, "Me2": -0.0025,
}

// MolLogP is the Wildman-Crippen octanol/water partition estimate.
func MolLogP(m *Molecule) float64 {
	v := newAtomView(m)
	total := 0.0
	for i, a := range m.Atoms {
		switch a.Element {
		case "*":
			continue
		case "H":
			total += crippenContrib[v.hydrogenType(i)]
			continue
		}
		total += crippenContrib[v.atomType(i)]
		if n := a.ImplicitH + a.ExplicitH; n > 0 {
			total += float64(n) * crippenContrib[v.hydrogenOn(i)]
		}
	}
	return total
}

// CrippenTypes returns the Crippen type label of every graph atom.
func CrippenTypes(m *Molecule) []string {
	v := newAtomView(m)
	out := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		switch a.Element {
		case "*":
			out[i] = ""
		case "H":
			out[i] = v.hydrogenType(i)
		default:
			out[i] = v.atomType(i)
		}
	}
	return out
}

type neighbor struct {
	idx   int
	order BondOrder
}

type atomView struct {
	m    *Molecule
	nbrs [][]neighbor // heavy neighbours only
	hs   []int
}

func newAtomView(m *Molecule) *atomView {
	v := &atomView{m: m, nbrs: make([][]neighbor, len(m.Atoms)), hs: make([]int, len(m.Atoms))}
	for i := range m.Atoms {
		v.hs[i] = m.TotalH(i)
		for _, bi := range m.BondsOf(i) {
			b := m.Bonds[bi]
			j := b.Other(i)
			if m.Atoms[j].Element == "H" {
				continue
			}
			v.nbrs[i] = append(v.nbrs[i], neighbor{idx: j, order: b.Order})
		}
	}
	return v
}

func (v *atomView) el(i int) string { return v.m.Atoms[i].Element }
func (v *atomView) arom(i int) bool { return v.m.Atoms[i].Aromatic }
func (v *atomView) charge(i int) int { return v.m.Atoms[i].Charge }
func (v *atomView) degree(i int) int { return len(v.nbrs[i]) + v.hs[i] }
func (v *atomView) aliph(i int) bool { return !v.arom(i) && v.el(i) != "H" }
func (v *atomView) heavy(i int) int { return len(v.nbrs[i]) }
func (v *atomView) isC(i int) bool { return v.el(i) == "C" && !v.arom(i) }
func (v *atomView) isAromC(i int) bool { return v.el(i) == "C" && v.arom(i) }

// hetero matches the aliphatic [N,O,P,S,F,Cl,Br,I] class.
func (v *atomView) hetero(i int) bool {
	if v.arom(i) {
		return false
	}
	switch v.el(i) {
	case "N", "O", "P", "S", "F", "Cl", "Br", "I":
		return true
	}
	return false
}

func (v *atomView) count(i int, pred func(n neighbor) bool) int {
	c := 0
	for _, n := range v.nbrs[i] {
		if pred(n) {
			c++
		}
	}
	return c
}

func (v *atomView) has(i int, pred func(n neighbor) bool) bool {
	return v.count(i, pred) > 0
}

func (v *atomView) atomType(i int) string {
	switch v.el(i) {
	case "C":
		if v.arom(i) {
			return v.aromaticCarbon(i)
		}
		return v.aliphaticCarbon(i)
	case "N":
		return v.nitrogen(i)
	case "O":
		return v.oxygen(i)
	case "F", "Cl", "Br", "I":
		if v.charge(i) < 0 {
			return "Hal"
		}
		return v.el(i)
	case "P":
		return "P"
	case "S":
		switch {
		case v.arom(i):
			return "S3"
		case v.charge(i) != 0:
			return "S2"
		default:
			return "S1"
		}
	case "Li", "Na", "K", "Rb", "Cs", "Be", "Mg", "Ca", "Sr", "Ba":
		return "Me1"
	default:
		return "Me2"
	}
}

func (v *atomView) aliphaticCarbon(i int) string {
	h := v.hs[i]
	x := v.degree(i)
	aliphC := v.count(i, func(n neighbor) bool { return v.isC(n.idx) })
	aliphHeavy := v.count(i, func(n neighbor) bool { return v.aliph(n.idx) })
	het := v.count(i, func(n neighbor) bool { return v.hetero(n.idx) })
	aromN := v.count(i, func(n neighbor) bool { return v.arom(n.idx) })
	dblC := v.has(i, func(n neighbor) bool { return n.order == BondDouble && v.isC(n.idx) })
	dblHet := v.has(i, func(n neighbor) bool {
		return n.order == BondDouble && v.aliph(n.idx) && v.el(n.idx) != "C"
	})

	switch {
	case h == 4,
		h == 3 && aliphC >= 1,
		h == 2 && x == 4 && aliphC >= 2:
		return "C1"
	case h == 1 && x == 4 && aliphC >= 3,
		h == 0 && x == 4 && aliphC >= 4:
		return "C2"
	case h == 3 && het >= 1,
		h == 2 && x == 4 && het >= 1 && aliphHeavy >= 2:
		return "C3"
	case h == 1 && x == 4 && het >= 1 && aliphHeavy >= 3,
		h == 0 && x == 4 && het >= 1 && aliphHeavy >= 4:
		return "C4"
	case dblHet:
		return "C5"
	case dblC && v.vinylAliphatic(i):
		return "C6"
	case x == 2 && v.has(i, func(n neighbor) bool { return n.order == BondTriple && v.aliph(n.idx) }):
		return "C7"
	case h == 3 && v.has(i, func(n neighbor) bool { return v.isAromC(n.idx) }):
		return "C8"
	case h == 3 && aromN >= 1:
		return "C9"
	case h == 2 && x == 4 && aromN >= 1:
		return "C10"
	case h == 1 && x == 4 && aromN >= 1:
		return "C11"
	case h == 0 && x == 4 && aromN >= 1:
		return "C12"
	case dblC || v.has(i, func(n neighbor) bool { return n.order == BondDouble && v.isAromC(n.idx) }):
		return "C26"
	case x == 4 && v.has(i, func(n neighbor) bool { return v.aliph(n.idx) && !v.hetero(n.idx) && v.el(n.idx) != "C" }):
		return "C27"
	}
	return "CS"
}

// vinylAliphatic reports a C=C carbon whose other substituents are all
// aliphatic, or a cumulated C(=C)=C centre.
func (v *atomView) vinylAliphatic(i int) bool {
	dbl := v.count(i, func(n neighbor) bool { return n.order == BondDouble && v.isC(n.idx) })
	if dbl >= 2 {
		return true
	}
	for _, n := range v.nbrs[i] {
		if n.order == BondDouble {
			continue
		}
		if v.arom(n.idx) {
			return false
		}
	}
	return true
}

func (v *atomView) aromaticCarbon(i int) string {
	var arom, exo []neighbor
	for _, n := range v.nbrs[i] {
		if n.order == BondAromatic {
			arom = append(arom, n)
		} else {
			exo = append(exo, n)
		}
	}
	if v.hs[i] == 0 {
		for _, n := range exo {
			if n.order != BondSingle || v.arom(n.idx) {
				continue
			}
			switch v.el(n.idx) {
			case "C", "N", "O", "S", "F", "Cl", "Br", "I":
			default:
				return "C13"
			}
		}
	}
	for _, n := range v.nbrs[i] {
		switch v.el(n.idx) {
		case "F":
			return "C14"
		case "Cl":
			return "C15"
		case "Br":
			return "C16"
		case "I":
			return "C17"
		}
	}
	if v.hs[i] > 0 {
		return "C18"
	}
	if len(arom) >= 3 {
		return "C19"
	}
	if len(arom) == 2 && len(exo) > 0 {
		n := exo[0]
		if n.order == BondDouble {
			switch v.el(n.idx) {
			case "C", "N", "O":
				if !v.arom(n.idx) {
					return "C25"
				}
			}
		}
		if n.order == BondSingle {
			if v.arom(n.idx) {
				return "C20"
			}
			switch v.el(n.idx) {
			case "C":
				return "C21"
			case "N":
				return "C22"
			case "O":
				return "C23"
			case "S":
				return "C24"
			}
		}
	}
	return "CS"
}

func (v *atomView) nitrogen(i int) string {
	h := v.hs[i]
	q := v.charge(i)
	if v.arom(i) {
		switch {
		case q == 0:
			return "N11"
		case q > 0 && h == 0 && v.heavy(i) >= 3:
			return "N13"
		case q > 0:
			return "N12"
		}
		return "NS"
	}
	heavyAliph := v.count(i, func(n neighbor) bool { return v.aliph(n.idx) })
	aromN := v.count(i, func(n neighbor) bool { return v.arom(n.idx) })
	dbl := v.has(i, func(n neighbor) bool { return n.order == BondDouble })
	tpl := v.has(i, func(n neighbor) bool { return n.order == BondTriple })

	if q == 0 {
		switch {
		case h == 3, h == 2 && heavyAliph == 1:
			return "N1"
		case h == 1 && heavyAliph == 2:
			return "N2"
		case h == 2 && aromN == 1:
			return "N3"
		case h == 1 && aromN >= 1 && v.heavy(i) == 2 && !dbl:
			return "N4"
		case h == 1 && dbl:
			return "N5"
		case h == 0 && dbl && v.heavy(i) == 2:
			return "N6"
		case h == 0 && heavyAliph == 3 && !dbl:
			return "N7"
		case h == 0 && aromN >= 1 && v.heavy(i) == 3 && !dbl:
			return "N8"
		case tpl:
			return "N9"
		}
		return "NS"
	}
	if q > 0 {
		switch {
		case h >= 1:
			return "N10"
		case tpl:
			return "N14"
		case v.heavy(i) >= 3:
			return "N13"
		}
		return "NS"
	}
	return "N14"
}

func (v *atomView) oxygen(i int) string {
	if v.arom(i) {
		return "O1"
	}
	h := v.hs[i]
	if h >= 1 {
		return "O2"
	}
	nb := v.nbrs[i]
	if len(nb) == 2 {
		a, b := nb[0].idx, nb[1].idx
		switch {
		case v.aliph(a) && v.aliph(b):
			return "O3"
		default:
			return "O4"
		}
	}
	if len(nb) != 1 {
		return "OS"
	}
	n := nb[0]
	j := n.idx
	if v.charge(i) < 0 {
		switch v.el(j) {
		case "N":
			return "O5"
		case "S":
			return "O6"
		case "C":
			if v.has(j, func(m neighbor) bool {
				return m.idx != i && m.order == BondDouble && v.el(m.idx) == "O"
			}) {
				return "O12"
			}
		}
		return "O7"
	}
	if n.order != BondDouble {
		return "OS"
	}
	switch {
	case v.el(j) == "N" || v.el(j) == "O":
		return "O5"
	case v.el(j) == "S":
		return "O6"
	case v.isAromC(j):
		return "O8"
	case v.isC(j):
		return v.carbonylOxygen(i, j)
	}
	return "O7"
}

// carbonylOxygen types the O of an aliphatic C=O at carbon j.
func (v *atomView) carbonylOxygen(o, j int) string {
	var subs []int
	for _, n := range v.nbrs[j] {
		if n.idx != o {
			subs = append(subs, n.idx)
		}
	}
	h := v.hs[j]
	isHet := func(k int) bool { return v.el(k) != "C" }
	switch {
	case len(subs) == 0:
		return "O9"
	case len(subs) == 1 && h >= 1:
		if v.arom(subs[0]) {
			return "O10"
		}
		return "O9"
	case len(subs) == 1:
		return "O9"
	}
	a, b := subs[0], subs[1]
	switch {
	case v.isC(a) && v.aliph(b), v.isC(b) && v.aliph(a):
		return "O9"
	case (v.el(a) == "C" || v.el(b) == "C") && (v.arom(a) || v.arom(b)):
		return "O10"
	case isHet(a) && isHet(b):
		return "O11"
	}
	return "O9"
}

// hydrogenOn types a hydrogen carried by heavy atom i.
func (v *atomView) hydrogenOn(i int) string {
	switch v.el(i) {
	case "C":
		return "H1"
	case "N":
		if v.arom(i) {
			return "H2"
		}
		return "H3"
	case "O":
		if v.arom(i) {
			return "H2"
		}
		return v.hydroxylHydrogen(i)
	case "H":
		return "H1"
	}
	return "H2"
}

func (v *atomView) hydroxylHydrogen(o int) string {
	nb := v.nbrs[o]
	if len(nb) == 0 {
		return "H2"
	}
	j := nb[0].idx
	switch {
	case v.isC(j) && v.degree(j) == 4:
		return "H2"
	case v.arom(j):
		return "H2"
	case v.el(j) != "C" && v.el(j) != "N" && v.el(j) != "O" && v.el(j) != "S":
		return "H2"
	case v.el(j) == "N":
		return "H3"
	case v.el(j) == "O" || v.el(j) == "S":
		return "H4"
	case v.isC(j) && v.has(j, func(n neighbor) bool {
		if n.order != BondDouble {
			return false
		}
		switch v.el(n.idx) {
		case "C", "N", "O", "S":
			return true
		}
		return false
	}):
		return "H4"
	}
	return "HS"
}

// hydrogenType types an explicit [H] atom by its neighbour.
func (v *atomView) hydrogenType(i int) string {
	bonds := v.m.BondsOf(i)
	if len(bonds) == 0 {
		return "HS"
	}
	return v.hydrogenOn(v.m.Bonds[bonds[0]].Other(i))
}
