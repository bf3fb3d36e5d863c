package chem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSMILES_Valid(t *testing.T) {
	tests := []struct {
		smiles  string
		atoms   int
		bonds   int
		formula string
	}{
		{"CCO", 3, 2, "C2H6O"},
		{"c1ccccc1", 6, 6, "C6H6"},
		{"CC(=O)O", 4, 3, "C2H4O2"},
		{"C1CC1", 3, 3, "C3H6"},
		{"C%10CC%10", 3, 3, "C3H6"},
		{"[NH4+]", 1, 0, "H4N"},
		{"[13CH4]", 1, 0, "CH4"},
		{"c1cc[nH]c1", 5, 5, "C4H5N"},
		{"c1ccncc1", 6, 6, "C5H5N"},
		{"c1ccoc1", 5, 5, "C4H4O"},
		{"c1ccsc1", 5, 5, "C4H4S"},
		{"C[C@@H](N)C(=O)O", 6, 5, "C3H7NO2"},
		{"F/C=C/F", 4, 3, "C2H2F2"},
		{"[Na+].[Cl-]", 2, 0, "ClNa"},
		{"C#N", 2, 1, "CHN"},
		{"O=C1C=CC(=O)C=C1", 8, 8, "C6H4O2"},
		{"c1ccc2ccccc2c1", 10, 11, "C10H8"},
		{"[H]OC", 3, 2, "CH4O"},
		{"CS(=O)(=O)O", 5, 4, "CH4O3S"},
		{"c1ccccc1-c1ccccc1", 12, 13, "C12H10"},
		{"O=c1cccc[nH]1", 7, 7, "C5H5NO"},
		{"Cn1c(=O)c2c(ncn2C)n(C)c1=O", 14, 15, "C8H10N4O2"},
		{"c1ccc2[nH]ccc2c1", 9, 10, "C8H7N"},
		{"C[n+]1ccccc1", 7, 7, "C6H8N"},
		{"[cH-]1cccc1", 5, 5, "C5H5"},
		{"[O-][N+](=O)C", 4, 3, "CH3NO2"},
		{"CCO ethanol", 3, 2, "C2H6O"},
		{"  c1ccccc1\tbenzene  ", 6, 6, "C6H6"},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m, err := ParseSMILES(tt.smiles)
			require.NoError(t, err)
			assert.Equal(t, tt.atoms, m.NumAtoms())
			assert.Len(t, m.Bonds, tt.bonds)
			assert.Equal(t, tt.formula, m.Formula())
		})
	}
}

func TestParseSMILES_Invalid(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"not_a_smiles",
		"C(",
		"C)C",
		"C1CC",
		"C=",
		"=C",
		"C11",
		"C12CC12",
		"[Xx]",
		"[C",
		"cc",
		"C(C)(C)(C)(C)C",
		"C==C",
		"%1C",
		"C.(C)",
		"c1cccc1",
		"c1ccnc1",
		"c1ccccc1c",
		"CN(=O)=O",
	}
	for _, s := range bad {
		t.Run(s, func(t *testing.T) {
			m, err := ParseSMILES(s)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, ErrInvalidSMILES), "error should match ErrInvalidSMILES: %v", err)
		})
	}
}

func TestParseSMILES_SyntaxErrorPosition(t *testing.T) {
	_, err := ParseSMILES("CC(C")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "unclosed branch", se.Msg)

	_, err = ParseSMILES("CCQ")
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Pos)
}

func TestParseSMILES_Kekulize(t *testing.T) {
	for _, s := range []string{"c1cccc1", "c1ccnc1", "c1ccc2cccc2c1"} {
		_, err := ParseSMILES(s)
		var se *SyntaxError
		require.ErrorAs(t, err, &se, s)
		assert.Equal(t, "can't kekulize aromatic system", se.Msg)
	}
}

func TestParseSMILES_TrailingName(t *testing.T) {
	m, err := ParseSMILES("CCO ethanol")
	require.NoError(t, err)
	assert.Equal(t, "CCO", m.SMILES)
}

func TestMolFromSMILES_SwallowsErrors(t *testing.T) {
	assert.Nil(t, MolFromSMILES("not_a_smiles"))
	assert.Nil(t, MolFromSMILES(""))
	assert.NotNil(t, MolFromSMILES("CCO"))
}

func TestRingBonds(t *testing.T) {
	m, err := ParseSMILES("C1CC1CC")
	require.NoError(t, err)
	assert.True(t, m.InRing(0))
	assert.True(t, m.InRing(2))
	assert.False(t, m.InRing(3))
	assert.False(t, m.InRing(4))

	// biphenyl link between aromatic atoms is not aromatic
	m, err = ParseSMILES("c1ccccc1c1ccccc1")
	require.NoError(t, err)
	link := m.BondBetween(5, 6)
	require.GreaterOrEqual(t, link, 0)
	assert.Equal(t, BondSingle, m.Bonds[link].Order)
	assert.False(t, m.Bonds[link].Ring)
}

func TestImplicitHydrogens(t *testing.T) {
	m, err := ParseSMILES("CC(=O)N")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Atoms[0].ImplicitH)
	assert.Equal(t, 0, m.Atoms[1].ImplicitH)
	assert.Equal(t, 0, m.Atoms[2].ImplicitH)
	assert.Equal(t, 2, m.Atoms[3].ImplicitH)

	m, err = ParseSMILES("[CH2]C")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Atoms[0].ImplicitH)
	assert.Equal(t, 2, m.TotalH(0))
}
