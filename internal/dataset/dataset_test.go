package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const chemblCSV = `Molecule ChEMBL ID;Smiles;Standard Type;Standard Value;Standard Units
CHEMBL1;CCO;IC50;120.5;nM
CHEMBL2;c1ccccc1;IC50;85;nM
CHEMBL3;not_a_smiles;IC50;10;nM
CHEMBL4;CC(=O)O;IC50;;nM
CHEMBL5;;IC50;42;nM
CHEMBL6;CC(=O)Nc1ccc(O)cc1;IC50;1,5;nM
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "chembl.csv")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestLoadAndAssemble(t *testing.T) {
	tbl, err := Load(writeCSV(t, chemblCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name != "chembl.csv" || len(tbl.Rows) != 6 {
		t.Fatalf("unexpected table: name=%q rows=%d", tbl.Name, len(tbl.Rows))
	}
	if got := tbl.SMILES(4); got != "" {
		t.Fatalf("missing SMILES should be empty, got %q", got)
	}

	ft := Assemble(tbl, DefaultOptions())
	if ft.Len() != 3 {
		t.Fatalf("expected 3 usable rows, got %d", ft.Len())
	}
	if ft.DroppedSMILES != 2 || ft.DroppedTarget != 1 {
		t.Fatalf("drop counts: smiles=%d target=%d", ft.DroppedSMILES, ft.DroppedTarget)
	}
	if strings.Join(ft.Columns, ",") != "MolecularWeight,AlogP" {
		t.Fatalf("columns: %v", ft.Columns)
	}
	r, c := ft.X.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("dims %dx%d", r, c)
	}
	if mw := ft.X.At(0, 0); mw < 46.06 || mw > 46.08 {
		t.Fatalf("ethanol MolecularWeight = %v", mw)
	}
	if ft.Y[0] != 120.5 || ft.Y[2] != 1.5 {
		t.Fatalf("targets: %v", ft.Y)
	}
	if got := ft.SourceRows; got[0] != 1 || got[1] != 2 || got[2] != 6 {
		t.Fatalf("source rows: %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("", DefaultOptions()); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := writeCSV(t, "Smiles;Value\nCCO;1\n")
	_, err := Load(p, DefaultOptions())
	if !errors.Is(err, ErrMissingColumn) || !strings.Contains(err.Error(), "Standard Value") {
		t.Fatalf("expected missing target column, got %v", err)
	}
	if _, err := Load(writeCSV(t, ""), DefaultOptions()); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected missing column for empty file, got %v", err)
	}
}

func TestLoadCustomColumnsAndDelimiter(t *testing.T) {
	p := writeCSV(t, "structure,pIC50\nCCO,5.5\nCO,6\n")
	opt := Options{Delimiter: ',', SMILESColumn: "structure", TargetColumn: "pIC50", DecimalSeparator: '.'}
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ft := Assemble(tbl, opt)
	if ft.Len() != 2 || ft.Y[1] != 6 {
		t.Fatalf("unexpected feature table: %+v", ft.Y)
	}
}

func TestAssembleEmpty(t *testing.T) {
	tbl, err := Load(writeCSV(t, "Smiles;Standard Value\nxx;1\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ft := Assemble(tbl, DefaultOptions())
	if ft.Len() != 0 || ft.X != nil {
		t.Fatalf("expected empty feature table")
	}
	md := Summarize(tbl.Name, ft, "Standard Value").Markdown()
	if !strings.Contains(md, "fewer than 2 usable rows") {
		t.Fatalf("missing warning:\n%s", md)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"1.5":      1.5,
		"1,5":      1.5,
		"1.000,25": 1000.25,
		"1,000.25": 1000.25,
		" 42 ":     42,
		"1e3":      1000,
	}
	for in, want := range cases {
		got, ok := ParseNumber(in, Options{})
		if !ok || got != want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "abc", ">10"} {
		if _, ok := ParseNumber(in, Options{}); ok {
			t.Errorf("ParseNumber(%q) should fail", in)
		}
	}
}

func TestReportMarkdown(t *testing.T) {
	tbl, err := Load(writeCSV(t, chemblCSV), DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rep := Summarize(tbl.Name, Assemble(tbl, DefaultOptions()), "Standard Value")
	rep.Model = &ModelSummary{Trees: 100, Train: 2, Test: 1, RMSE: 3, R2: 0.5,
		Importances: []Importance{{Name: "MolecularWeight", Value: 0.7}, {Name: "AlogP", Value: 0.3}}}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]", "File: chembl.csv", "Rows: 6",
		"Usable: 3 (dropped 2 invalid SMILES, 1 non-numeric targets)",
		"- MolecularWeight: n=3", "- Standard Value: n=3",
		"[MODEL]", "RMSE: 3, R-squared: 0.5000", "- AlogP: 0.300",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
