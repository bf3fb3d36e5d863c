package chem

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSMILES is matched by every error ParseSMILES returns.
var ErrInvalidSMILES = errors.New("invalid smiles")

// SyntaxError reports where a SMILES string was rejected.
type SyntaxError struct {
	SMILES string
	Pos    int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("smiles %q: %s", e.SMILES, e.Msg)
	}
	return fmt.Sprintf("smiles %q: %s at position %d", e.SMILES, e.Msg, e.Pos)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrInvalidSMILES }

// MolFromSMILES parses s and returns nil instead of an error.
func MolFromSMILES(s string) *Molecule {
	m, err := ParseSMILES(s)
	if err != nil {
		return nil
	}
	return m
}

// ParseSMILES parses an OpenSMILES string into a molecule. Stereo marks are
// accepted and dropped. Anything after the first space or tab is a name and
// is ignored.
func ParseSMILES(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	p := &smilesParser{src: s, mol: &Molecule{SMILES: s}, prev: -1, rings: map[int]ringBond{}}
	if s == "" {
		return nil, p.errorf("empty string")
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

type ringBond struct {
	atom  int
	order BondOrder // 0 when unspecified
	pos   int
}

type smilesParser struct {
	src  string
	pos  int
	mol  *Molecule
	prev int

	bond    BondOrder // pending explicit bond, 0 when none
	bondPos int
	stack   []int
	rings   map[int]ringBond
}

func (p *smilesParser) errorf(format string, args ...any) error {
	return &SyntaxError{SMILES: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch without a preceding atom")
			}
			if p.bond != 0 {
				return p.errorf("bond before branch")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.bond != 0 {
				return p.errorf("dangling bond")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.bond != 0 {
				return p.errorf("dangling bond")
			}
			if len(p.stack) > 0 {
				return p.errorf("'.' inside branch")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.bond != 0 {
				return p.errorf("consecutive bond symbols")
			}
			p.bond = bondFromSymbol(c)
			p.bondPos = p.pos
			p.pos++
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			if err := p.attach(a); err != nil {
				return err
			}
		default:
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			if err := p.attach(a); err != nil {
				return err
			}
		}
	}
	if p.bond != 0 {
		p.pos = p.bondPos
		return p.errorf("dangling bond")
	}
	if len(p.stack) > 0 {
		return p.errorf("unclosed branch")
	}
	if len(p.rings) > 0 {
		p.pos = len(p.src)
		for _, rb := range p.rings {
			if rb.pos < p.pos {
				p.pos = rb.pos
			}
		}
		return p.errorf("unclosed ring bond")
	}
	return nil
}

func bondFromSymbol(c byte) BondOrder {
	switch c {
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	default: // '-', '/', '\'
		return BondSingle
	}
}

func (p *smilesParser) defaultOrder(i, j int) BondOrder {
	if p.mol.Atoms[i].Aromatic && p.mol.Atoms[j].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

func (p *smilesParser) attach(a Atom) error {
	idx := p.mol.addAtom(a)
	if p.prev >= 0 {
		order := p.bond
		if order == 0 {
			order = p.defaultOrder(p.prev, idx)
		}
		p.mol.addBond(p.prev, idx, order)
	} else if p.bond != 0 {
		p.pos = p.bondPos
		return p.errorf("bond without a preceding atom")
	}
	p.bond = 0
	p.prev = idx
	return nil
}

func (p *smilesParser) ringClosure() error {
	start := p.pos
	if p.prev < 0 {
		return p.errorf("ring bond without a preceding atom")
	}
	var num int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf("'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}
	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringBond{atom: p.prev, order: p.bond, pos: start}
		p.bond = 0
		return nil
	}
	delete(p.rings, num)
	if open.atom == p.prev {
		p.pos = start
		return p.errorf("ring bond to itself")
	}
	if p.mol.BondBetween(open.atom, p.prev) >= 0 {
		p.pos = start
		return p.errorf("duplicate bond")
	}
	order := p.bond
	switch {
	case order != 0 && open.order != 0 && order != open.order:
		p.pos = start
		return p.errorf("conflicting ring bond orders")
	case order == 0 && open.order != 0:
		order = open.order
	case order == 0:
		order = p.defaultOrder(open.atom, p.prev)
	}
	p.mol.addBond(open.atom, p.prev, order)
	p.bond = 0
	return nil
}

func (p *smilesParser) organicAtom() (Atom, error) {
	rest := p.src[p.pos:]
	if rest[0] == '*' {
		p.pos++
		return Atom{Element: "*"}, nil
	}
	if strings.HasPrefix(rest, "Cl") || strings.HasPrefix(rest, "Br") {
		p.pos += 2
		return Atom{Element: rest[:2]}, nil
	}
	sym := rest[:1]
	if organicSubset[sym] {
		p.pos++
		return Atom{Element: sym}, nil
	}
	if el, ok := aromaticSymbols[sym]; ok {
		p.pos++
		return Atom{Element: el, Aromatic: true}, nil
	}
	return Atom{}, p.errorf("unexpected character %q", rest[0])
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	open := p.pos
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unclosed '['")
	}
	body := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1

	a := Atom{Bracket: true}
	i := 0
	fail := func(msg string) (Atom, error) {
		p.pos = open + 1 + i
		return Atom{}, p.errorf("%s in bracket atom", msg)
	}

	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}
	if i >= len(body) {
		return fail("missing element")
	}

	switch {
	case body[i] == '*':
		a.Element = "*"
		i++
	case isLower(body[i]):
		if i+1 < len(body) {
			if el, ok := aromaticSymbols[body[i:i+2]]; ok {
				a.Element, a.Aromatic = el, true
				i += 2
				break
			}
		}
		el, ok := aromaticSymbols[body[i:i+1]]
		if !ok {
			return fail("unknown aromatic element")
		}
		a.Element, a.Aromatic = el, true
		i++
	case isUpper(body[i]):
		if i+1 < len(body) && isLower(body[i+1]) {
			if _, ok := elements[body[i:i+2]]; ok {
				a.Element = body[i : i+2]
				i += 2
				break
			}
		}
		if _, ok := elements[body[i:i+1]]; !ok {
			return fail("unknown element")
		}
		a.Element = body[i : i+1]
		i++
	default:
		return fail("missing element")
	}

	// chirality
	if i < len(body) && body[i] == '@' {
		i++
		if i < len(body) && body[i] == '@' {
			i++
		} else if i+1 < len(body) {
			switch body[i : i+2] {
			case "TH", "AL", "SP", "TB", "OH":
				i += 2
				for i < len(body) && isDigit(body[i]) {
					i++
				}
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.ExplicitH = 1
		if i < len(body) && isDigit(body[i]) {
			a.ExplicitH = 0
			for i < len(body) && isDigit(body[i]) {
				a.ExplicitH = a.ExplicitH*10 + int(body[i]-'0')
				i++
			}
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sym := body[i]
		i++
		mag := 1
		if i < len(body) && isDigit(body[i]) {
			mag = 0
			for i < len(body) && isDigit(body[i]) {
				mag = mag*10 + int(body[i]-'0')
				i++
			}
		} else {
			for i < len(body) && body[i] == sym {
				mag++
				i++
			}
		}
		a.Charge = sign * mag
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) || !isDigit(body[i]) {
			return fail("bad atom class")
		}
		for i < len(body) && isDigit(body[i]) {
			a.Class = a.Class*10 + int(body[i]-'0')
			i++
		}
	}

	if i != len(body) {
		return fail(fmt.Sprintf("unexpected %q", body[i]))
	}
	return a, nil
}

// finish resolves ring membership, implicit hydrogens and valence checks,
// then checks that every aromatic system can be kekulized.
func (p *smilesParser) finish() error {
	m := p.mol
	m.markRingBonds()
	for bi := range m.Bonds {
		b := &m.Bonds[bi]
		// aromatic atoms joined outside a ring are joined by a single bond
		if b.Order == BondAromatic && !b.Ring {
			b.Order = BondSingle
		}
	}
	needsPi := make([]bool, len(m.Atoms))
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.Aromatic && !m.InRing(i) {
			return &SyntaxError{SMILES: p.src, Pos: -1, Msg: fmt.Sprintf("non-ring atom %d marked aromatic", i)}
		}
		if a.Element == "*" {
			continue
		}
		el := elements[a.Element]
		if len(el.Valences) == 0 {
			continue
		}
		used := bondValence(m, i)
		if !a.Bracket {
			h, ok := implicitHydrogens(el.Valences, used, a.Aromatic)
			if !ok {
				return &SyntaxError{SMILES: p.src, Pos: -1, Msg: fmt.Sprintf("explicit valence %d too high for %s", used, a.Element)}
			}
			a.ImplicitH = h
			needsPi[i] = a.Aromatic && freeValence(el.Valences, used) > 0
			continue
		}
		limit := el.Valences[len(el.Valences)-1] + abs(a.Charge)
		if used+a.ExplicitH > limit {
			return &SyntaxError{SMILES: p.src, Pos: -1, Msg: fmt.Sprintf("explicit valence %d too high for %s", used+a.ExplicitH, a.Element)}
		}
		if a.Aromatic {
			needsPi[i] = freeValence(chargedValences(a.Element, a.Charge), used+a.ExplicitH) > 0
		}
	}
	if !kekulizable(m, needsPi) {
		return &SyntaxError{SMILES: p.src, Pos: -1, Msg: "can't kekulize aromatic system"}
	}
	return nil
}

// freeValence is the gap between used and the lowest valence that fits it.
func freeValence(valences []int, used int) int {
	for _, v := range valences {
		if v >= used {
			return v - used
		}
	}
	return 0
}

// chargedValences returns the valences of the element isoelectronic with a
// charged atom, so [n+] behaves like carbon and [c-] like nitrogen.
func chargedValences(symbol string, charge int) []int {
	if charge == 0 {
		return elements[symbol].Valences
	}
	number := elements[symbol].Number - charge
	for _, el := range elements {
		if el.Number == number {
			return el.Valences
		}
	}
	return nil
}

// kekulizable reports whether the atoms flagged in needsPi can be paired up
// along aromatic bonds, one double bond per atom.
func kekulizable(m *Molecule, needsPi []bool) bool {
	partners := make([][]int, len(m.Atoms))
	for _, b := range m.Bonds {
		if b.Order == BondAromatic && needsPi[b.From] && needsPi[b.To] {
			partners[b.From] = append(partners[b.From], b.To)
			partners[b.To] = append(partners[b.To], b.From)
		}
	}
	n := 0
	for i, need := range needsPi {
		if !need {
			continue
		}
		if len(partners[i]) == 0 {
			return false
		}
		n++
	}
	if n%2 != 0 {
		return false
	}
	match := make([]int, len(m.Atoms))
	for i := range match {
		match[i] = -1
	}
	return matchPi(partners, needsPi, match)
}

// matchPi extends a partial matching, branching on the unmatched atom with
// the fewest free partners.
func matchPi(partners [][]int, needsPi []bool, match []int) bool {
	best, bestFree := -1, 0
	for i, need := range needsPi {
		if !need || match[i] >= 0 {
			continue
		}
		free := 0
		for _, j := range partners[i] {
			if match[j] < 0 {
				free++
			}
		}
		if free == 0 {
			return false
		}
		if best < 0 || free < bestFree {
			best, bestFree = i, free
		}
	}
	if best < 0 {
		return true
	}
	for _, j := range partners[best] {
		if match[j] >= 0 {
			continue
		}
		match[best], match[j] = j, best
		if matchPi(partners, needsPi, match) {
			return true
		}
		match[best], match[j] = -1, -1
	}
	return false
}

// bondValence sums bond orders on atom i, counting aromatic bonds as one.
func bondValence(m *Molecule, i int) int {
	v := 0
	for _, bi := range m.adj[i] {
		if o := m.Bonds[bi].Order; o == BondAromatic {
			v++
		} else {
			v += int(o)
		}
	}
	return v
}

// implicitHydrogens fills the lowest default valence that fits used. An
// aromatic atom gives one unit of the remainder to the pi system when there
// is one to give, so pyridine n and furan o get no hydrogen.
func implicitHydrogens(valences []int, used int, aromatic bool) (int, bool) {
	for _, v := range valences {
		if v >= used {
			h := v - used
			if aromatic && h > 0 {
				h--
			}
			return h, true
		}
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
