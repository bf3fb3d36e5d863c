package chem

// BondOrder is the multiplicity of a bond. Aromatic bonds are kept distinct
// rather than kekulized.
type BondOrder int

const (
	BondSingle BondOrder = iota + 1
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

// Atom is a node of the molecular graph.
type Atom struct {
	Element  string // "*" for a wildcard atom
	Aromatic bool
	Charge   int
	Isotope  int
	Class    int
	// Bracket is true when the atom was written as [..] and its hydrogen
	// count is therefore explicit.
	Bracket   bool
	ExplicitH int
	ImplicitH int
}

// Bond connects two atoms by index.
type Bond struct {
	From, To int
	Order    BondOrder
	Ring     bool
}

// Other returns the endpoint of b that is not i.
func (b Bond) Other(i int) int {
	if b.From == i {
		return b.To
	}
	return b.From
}

// Molecule is a parsed structure. Build one with ParseSMILES.
type Molecule struct {
	SMILES string
	Atoms  []Atom
	Bonds  []Bond

	adj [][]int // atom -> bond indices
}

// NumAtoms returns the number of graph atoms (implicit hydrogens excluded).
func (m *Molecule) NumAtoms() int { return len(m.Atoms) }

// BondsOf returns the indices of bonds touching atom i.
func (m *Molecule) BondsOf(i int) []int { return m.adj[i] }

// BondBetween returns the bond index joining i and j, or -1.
func (m *Molecule) BondBetween(i, j int) int {
	for _, bi := range m.adj[i] {
		if m.Bonds[bi].Other(i) == j {
			return bi
		}
	}
	return -1
}

// TotalH counts hydrogens on atom i: implicit, bracket and H-atom neighbours.
func (m *Molecule) TotalH(i int) int {
	a := m.Atoms[i]
	n := a.ImplicitH + a.ExplicitH
	for _, bi := range m.adj[i] {
		if m.Atoms[m.Bonds[bi].Other(i)].Element == "H" {
			n++
		}
	}
	return n
}

// HeavyNeighbors returns neighbours of i that are not hydrogen atoms.
func (m *Molecule) HeavyNeighbors(i int) []int {
	var out []int
	for _, bi := range m.adj[i] {
		j := m.Bonds[bi].Other(i)
		if m.Atoms[j].Element != "H" {
			out = append(out, j)
		}
	}
	return out
}

// InRing reports whether atom i is part of a ring.
func (m *Molecule) InRing(i int) bool {
	for _, bi := range m.adj[i] {
		if m.Bonds[bi].Ring {
			return true
		}
	}
	return false
}

// Formula returns the Hill-order formula, e.g. "C2H6O".
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	for _, a := range m.Atoms {
		if a.Element == "*" {
			continue
		}
		counts[a.Element]++
		counts["H"] += a.ImplicitH + a.ExplicitH
	}
	return hillFormula(counts)
}

func (m *Molecule) addAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

func (m *Molecule) addBond(i, j int, order BondOrder) int {
	m.Bonds = append(m.Bonds, Bond{From: i, To: j, Order: order})
	bi := len(m.Bonds) - 1
	m.adj[i] = append(m.adj[i], bi)
	m.adj[j] = append(m.adj[j], bi)
	return bi
}

// markRingBonds flags every bond that is not a bridge of the graph.
func (m *Molecule) markRingBonds() {
	n := len(m.Atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	t := 0
	var visit func(u, parentBond int)
	visit = func(u, parentBond int) {
		disc[u] = t
		low[u] = t
		t++
		for _, bi := range m.adj[u] {
			if bi == parentBond {
				continue
			}
			v := m.Bonds[bi].Other(u)
			if disc[v] == -1 {
				visit(v, bi)
				if low[v] < low[u] {
					low[u] = low[v]
				}
				if low[v] <= disc[u] {
					m.Bonds[bi].Ring = true
				}
			} else {
				if disc[v] < low[u] {
					low[u] = disc[v]
				}
				m.Bonds[bi].Ring = true
			}
		}
	}
	for i := 0; i < n; i++ {
		if disc[i] == -1 {
			visit(i, -1)
		}
	}
}
