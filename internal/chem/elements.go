package chem

// element holds the per-element data needed for parsing and descriptors.
type element struct {
	Number int
	Weight float64 // IUPAC standard atomic weight (abridged)
	// Valences lists allowed neutral valences in ascending order. Empty means
	// the element is not valence-checked and gets no implicit hydrogens.
	Valences []int
}

var elements = map[string]element{
	"H":  {1, 1.008, []int{1}},
	"He": {2, 4.003, nil},
	"Li": {3, 6.941, nil},
	"Be": {4, 9.012, nil},
	"B":  {5, 10.812, []int{3}},
	"C":  {6, 12.011, []int{4}},
	"N":  {7, 14.007, []int{3}},
	"O":  {8, 15.999, []int{2}},
	"F":  {9, 18.998, []int{1}},
	"Ne": {10, 20.180, nil},
	"Na": {11, 22.990, nil},
	"Mg": {12, 24.305, nil},
	"Al": {13, 26.982, nil},
	"Si": {14, 28.086, []int{4}},
	"P":  {15, 30.974, []int{3, 5}},
	"S":  {16, 32.067, []int{2, 4, 6}},
	"Cl": {17, 35.453, []int{1}},
	"Ar": {18, 39.948, nil},
	"K":  {19, 39.098, nil},
	"Ca": {20, 40.078, nil},
	"Sc": {21, 44.956, nil},
	"Ti": {22, 47.867, nil},
	"V":  {23, 50.942, nil},
	"Cr": {24, 51.996, nil},
	"Mn": {25, 54.938, nil},
	"Fe": {26, 55.845, nil},
	"Co": {27, 58.933, nil},
	"Ni": {28, 58.693, nil},
	"Cu": {29, 63.546, nil},
	"Zn": {30, 65.390, nil},
	"Ga": {31, 69.723, nil},
	"Ge": {32, 72.610, nil},
	"As": {33, 74.922, []int{3, 5}},
	"Se": {34, 78.971, []int{2, 4, 6}},
	"Br": {35, 79.904, []int{1}},
	"Kr": {36, 83.800, nil},
	"Rb": {37, 85.468, nil},
	"Sr": {38, 87.620, nil},
	"Y":  {39, 88.906, nil},
	"Zr": {40, 91.224, nil},
	"Nb": {41, 92.906, nil},
	"Mo": {42, 95.940, nil},
	"Tc": {43, 98.000, nil},
	"Ru": {44, 101.070, nil},
	"Rh": {45, 102.906, nil},
	"Pd": {46, 106.420, nil},
	"Ag": {47, 107.868, nil},
	"Cd": {48, 112.411, nil},
	"In": {49, 114.818, nil},
	"Sn": {50, 118.710, nil},
	"Sb": {51, 121.760, nil},
	"Te": {52, 127.600, []int{2, 4, 6}},
	"I":  {53, 126.904, []int{1}},
	"Xe": {54, 131.290, nil},
	"Cs": {55, 132.905, nil},
	"Ba": {56, 137.327, nil},
	"La": {57, 138.906, nil},
	"Gd": {64, 157.250, nil},
	"Hf": {72, 178.490, nil},
	"Ta": {73, 180.948, nil},
	"W":  {74, 183.840, nil},
	"Re": {75, 186.207, nil},
	"Os": {76, 190.230, nil},
	"Ir": {77, 192.217, nil},
	"Pt": {78, 195.078, nil},
	"Au": {79, 196.967, nil},
	"Hg": {80, 200.590, nil},
	"Tl": {81, 204.383, nil},
	"Pb": {82, 207.200, nil},
	"Bi": {83, 208.980, nil},
	"Ra": {88, 226.000, nil},
	"U":  {92, 238.029, nil},
}

// isotopeMasses covers labels that show up in medicinal chemistry data.
// Other isotopes fall back to the mass number.
var isotopeMasses = map[string]map[int]float64{
	"H": {1: 1.00783, 2: 2.01410, 3: 3.01605},
	"C": {11: 11.01143, 12: 12.0, 13: 13.00335, 14: 14.00324},
	"N": {14: 14.00307, 15: 15.00011},
	"O": {16: 15.99491, 17: 16.99913, 18: 17.99916},
	"F": {18: 18.00094, 19: 18.99840},
	"P": {32: 31.97391},
	"S": {35: 34.96903},
	"I": {123: 122.90559, 125: 124.90463, 131: 130.90612},
}

// organic subset symbols that may appear outside brackets.
var organicSubset = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticSymbols maps lowercase aromatic symbols to their element.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

func atomicWeight(symbol string, isotope int) float64 {
	if isotope > 0 {
		if m, ok := isotopeMasses[symbol][isotope]; ok {
			return m
		}
		return float64(isotope)
	}
	return elements[symbol].Weight
}
