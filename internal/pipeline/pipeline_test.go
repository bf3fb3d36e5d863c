package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/potency-cli/internal/chem"
	"github.com/KaramelBytes/potency-cli/internal/dataset"
	"github.com/KaramelBytes/potency-cli/internal/forest"
)

var compounds = []string{
	"CCO", "CCCO", "CCCCO", "c1ccccc1", "Cc1ccccc1", "CC(=O)O", "CO", "CCN",
	"CCCN", "CCCl", "CCBr", "c1ccncc1", "CC(=O)Nc1ccc(O)cc1", "CCOC", "CCCC",
	"CCCCC", "CC(C)O", "OCCO", "C1CCCCC1", "Oc1ccccc1",
}

func writeCompounds(t *testing.T, extra ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Molecule ChEMBL ID;Smiles;Standard Value\n")
	for i, s := range compounds {
		fmt.Fprintf(&b, "CHEMBL%d;%s;%d\n", i, s, 10+i*7)
	}
	for _, line := range extra {
		b.WriteString(line + "\n")
	}
	p := filepath.Join(t.TempDir(), "compounds.csv")
	require.NoError(t, os.WriteFile(p, []byte(b.String()), 0o644))
	return p
}

func baseOptions(path string, out *bytes.Buffer) Options {
	return Options{
		Path:     path,
		Dataset:  dataset.DefaultOptions(),
		TestSize: 0.2,
		Seed:     42,
		Forest:   []forest.Option{forest.WithNEstimators(20), forest.WithRandomState(42)},
		Out:      out,
	}
}

func ptr(v float64) *float64 { return &v }

func TestRun_WithFeatureFlags(t *testing.T) {
	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t, "CHEMBLX;not_a_smiles;5"), &out)
	opt.MW, opt.AlogP = ptr(120), ptr(1.2)
	require.NoError(t, Run(context.Background(), opt))

	s := out.String()
	assert.Contains(t, s, "RMSE: ")
	assert.Contains(t, s, ", R-squared: ")
	assert.Contains(t, s, "Predicted Potency: ")
}

func TestRun_PromptedInput(t *testing.T) {
	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t), &out)
	opt.In = strings.NewReader("180.2\n1.5\n")
	require.NoError(t, Run(context.Background(), opt))
	assert.Contains(t, out.String(), PromptMW)
	assert.Contains(t, out.String(), PromptAlogP)
	assert.Contains(t, out.String(), "Predicted Potency: ")
}

func TestRun_InvalidInput(t *testing.T) {
	for _, in := range []string{"abc\n", "100\nxyz\n", ""} {
		var out bytes.Buffer
		opt := baseOptions(writeCompounds(t), &out)
		opt.In = strings.NewReader(in)
		require.NoError(t, Run(context.Background(), opt))
		assert.Contains(t, out.String(), MsgInvalidInput, "input %q", in)
		assert.NotContains(t, out.String(), "Predicted Potency")
	}

	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t), &out)
	opt.In = strings.NewReader("abc\n")
	require.NoError(t, Run(context.Background(), opt))
	assert.NotContains(t, out.String(), PromptAlogP)
}

func TestRun_InvalidSMILESFeature(t *testing.T) {
	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t), &out)
	opt.SMILES = "C1CC"
	require.NoError(t, Run(context.Background(), opt))
	assert.Contains(t, out.String(), MsgInvalidInput)
}

func TestRun_NonFiniteInputIsPredictionError(t *testing.T) {
	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t), &out)
	opt.In = strings.NewReader("NaN\n1\n")
	require.NoError(t, Run(context.Background(), opt))
	assert.Contains(t, out.String(), "Prediction error: ")
	assert.NotContains(t, out.String(), "Predicted Potency")
}

func TestRun_HaltPaths(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), baseOptions("", &out)))
	assert.Equal(t, MsgNoFile+"\n", out.String())

	out.Reset()
	require.NoError(t, Run(context.Background(), baseOptions(filepath.Join(t.TempDir(), "missing.csv"), &out)))
	assert.True(t, strings.HasPrefix(out.String(), "Error loading CSV file: "))
	assert.NotContains(t, out.String(), "RMSE")

	out.Reset()
	p := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(p, []byte("Smiles;Value\nCCO;1\n"), 0o644))
	require.NoError(t, Run(context.Background(), baseOptions(p, &out)))
	assert.Contains(t, out.String(), "Error loading CSV file: ")
}

func TestRun_TooFewRows(t *testing.T) {
	p := filepath.Join(t.TempDir(), "one.csv")
	require.NoError(t, os.WriteFile(p, []byte("Smiles;Standard Value\nCCO;1\nxx;2\n"), 0o644))
	err := Run(context.Background(), baseOptions(p, &bytes.Buffer{}))
	assert.ErrorIs(t, err, ErrTooFewRows)
}

func TestRun_NoPredict(t *testing.T) {
	var out bytes.Buffer
	opt := baseOptions(writeCompounds(t), &out)
	opt.NoPredict = true
	require.NoError(t, Run(context.Background(), opt))
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func loadFeatures(t *testing.T) *dataset.FeatureTable {
	t.Helper()
	tbl, err := dataset.Load(writeCompounds(t), dataset.DefaultOptions())
	require.NoError(t, err)
	return dataset.Assemble(tbl, dataset.DefaultOptions())
}

func TestTrain_DeterministicAndBounded(t *testing.T) {
	ft := loadFeatures(t)
	a, err := Train(context.Background(), ft, 0.2, 42, forest.WithNEstimators(15))
	require.NoError(t, err)
	b, err := Train(context.Background(), ft, 0.2, 42, forest.WithNEstimators(15), forest.WithWorkers(1))
	require.NoError(t, err)

	assert.Len(t, a.Test, 4)
	assert.Len(t, a.Train, 16)
	assert.Equal(t, a.RMSE, b.RMSE)
	assert.Equal(t, a.R2, b.R2)
	assert.GreaterOrEqual(t, a.RMSE, 0.0)
	assert.LessOrEqual(t, a.R2, 1.0)
	assert.Equal(t, chem.DescriptorNames, a.Model.Columns)

	v, err := PredictPotency(a.Model, map[string]float64{chem.MolecularWeight: 100, chem.AlogP: 1})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, 10.0)
	assert.LessOrEqual(t, v, float64(10+19*7))
}

func TestPredictPotency_Errors(t *testing.T) {
	_, err := PredictPotency(nil, nil)
	assert.ErrorIs(t, err, forest.ErrNotFitted)

	res, err := Train(context.Background(), loadFeatures(t), 0.2, 42, forest.WithNEstimators(5))
	require.NoError(t, err)

	_, err = PredictPotency(res.Model, map[string]float64{"MW": 1, chem.AlogP: 2})
	assert.ErrorIs(t, err, forest.ErrFeatureMismatch)
	_, err = PredictPotency(res.Model, map[string]float64{chem.MolecularWeight: 1})
	assert.ErrorIs(t, err, forest.ErrFeatureMismatch)
	_, err = PredictPotency(res.Model, map[string]float64{chem.MolecularWeight: math.Inf(1), chem.AlogP: 2})
	assert.ErrorIs(t, err, forest.ErrNonFinite)
}

func TestParseFeature(t *testing.T) {
	v, err := ParseFeature(" 3.25 ")
	require.NoError(t, err)
	assert.Equal(t, 3.25, v)
	_, err = ParseFeature("abc")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseFeature("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
