package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/potency-cli/internal/chem"
	"github.com/KaramelBytes/potency-cli/internal/dataset"
	"github.com/KaramelBytes/potency-cli/internal/forest"
	"github.com/KaramelBytes/potency-cli/internal/logger"
)

var (
	// ErrTooFewRows is returned when fewer than two rows survive assembly.
	ErrTooFewRows = errors.New("not enough usable rows to train")
	// ErrInvalidInput marks feature values that are not numbers.
	ErrInvalidInput = errors.New("invalid input for features")
)

// User-facing messages.
const (
	MsgNoFile       = "No file selected. Exiting."
	MsgInvalidInput = "Invalid input for features. Please enter numerical values."
	PromptMW        = "Enter Molecular Weight of the new compound: "
	PromptAlogP     = "Enter AlogP of the new compound: "
)

// Options configures a pipeline run.
type Options struct {
	Path      string
	Dataset   dataset.Options
	TestSize  float64
	Seed      int64
	Forest    []forest.Option
	NoPredict bool

	// Feature sources for the prediction step, checked in order.
	MW, AlogP *float64
	SMILES    string

	In  io.Reader
	Out io.Writer
	Log *logger.Logger
}

// Model is a fitted regressor together with its feature column names.
type Model struct {
	Columns []string
	Forest  *forest.Regressor
}

// Result carries the evaluation of a trained model.
type Result struct {
	Model       *Model
	Table       *dataset.FeatureTable
	Train, Test []int
	RMSE, R2    float64
	MAE         float64
}

// Run executes the load, assemble, train, evaluate and predict steps.
// Halting conditions (no file, unreadable CSV, bad prediction input) print
// a message and return nil.
func Run(ctx context.Context, opt Options) error {
	log := opt.Log
	if log == nil {
		log = logger.Nop()
	}
	out := opt.Out
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(opt.Path) == "" {
		fmt.Fprintln(out, MsgNoFile)
		return nil
	}
	tbl, err := dataset.Load(opt.Path, opt.Dataset)
	if err != nil {
		fmt.Fprintf(out, "Error loading CSV file: %v\n", err)
		return nil
	}
	log.Debugw("loaded csv", "file", tbl.Name, "rows", len(tbl.Rows))

	ft := dataset.Assemble(tbl, opt.Dataset)
	for _, d := range ft.Dropped {
		log.Debugw("dropped row", "row", d.Row, "reason", d.Reason, "value", d.Value)
	}
	if ft.DroppedSMILES+ft.DroppedTarget > 0 {
		log.Infow("rows dropped", "invalid_smiles", ft.DroppedSMILES, "bad_target", ft.DroppedTarget, "kept", ft.Len())
	}

	res, err := Train(ctx, ft, opt.TestSize, opt.Seed, opt.Forest...)
	if err != nil {
		return err
	}
	log.Infow("model trained", "trees", len(res.Model.Forest.Trees), "train", len(res.Train), "test", len(res.Test))
	fmt.Fprintf(out, "RMSE: %v, R-squared: %v\n", res.RMSE, res.R2)

	if opt.NoPredict {
		return nil
	}
	features, err := collectFeatures(opt)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			fmt.Fprintln(out, MsgInvalidInput)
			return nil
		}
		return err
	}
	v, err := PredictPotency(res.Model, features)
	if err != nil {
		fmt.Fprintf(out, "Prediction error: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "Predicted Potency: %v\n", v)
	return nil
}

// Train splits ft, fits a forest on the training rows and scores it on the
// held-out rows.
func Train(ctx context.Context, ft *dataset.FeatureTable, testSize float64, seed int64, opts ...forest.Option) (*Result, error) {
	if ft.Len() < 2 {
		return nil, fmt.Errorf("%w: %d", ErrTooFewRows, ft.Len())
	}
	train, test, err := forest.TrainTestSplit(ft.Len(), testSize, seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	rf := forest.NewRegressor(opts...)
	if err := rf.Fit(ctx, forest.Rows(ft.X, train), forest.Take(ft.Y, train)); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	pred, err := rf.Predict(forest.Rows(ft.X, test))
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	yTest := forest.Take(ft.Y, test)
	return &Result{
		Model: &Model{Columns: append([]string(nil), ft.Columns...), Forest: rf},
		Table: ft,
		Train: train,
		Test:  test,
		RMSE:  forest.RMSE(yTest, pred),
		R2:    forest.R2(yTest, pred),
		MAE:   forest.MAE(yTest, pred),
	}, nil
}

// PredictPotency predicts a single compound from named feature values.
// The names must match the model's columns exactly.
func PredictPotency(m *Model, features map[string]float64) (float64, error) {
	if m == nil || m.Forest == nil {
		return 0, forest.ErrNotFitted
	}
	if len(features) != len(m.Columns) {
		return 0, fmt.Errorf("%w: got %d columns, want %d", forest.ErrFeatureMismatch, len(features), len(m.Columns))
	}
	row := make([]float64, len(m.Columns))
	for i, c := range m.Columns {
		v, ok := features[c]
		if !ok {
			return 0, fmt.Errorf("%w: missing column %q", forest.ErrFeatureMismatch, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s=%v", forest.ErrNonFinite, c, v)
		}
		row[i] = v
	}
	return m.Forest.PredictOne(row)
}

// ParseFeature parses one user-entered value.
func ParseFeature(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, s)
	}
	return v, nil
}

func collectFeatures(opt Options) (map[string]float64, error) {
	switch {
	case opt.MW != nil && opt.AlogP != nil:
		return map[string]float64{chem.MolecularWeight: *opt.MW, chem.AlogP: *opt.AlogP}, nil
	case opt.SMILES != "":
		d := chem.FromSMILES(opt.SMILES)
		if d == nil {
			return nil, fmt.Errorf("%w: smiles %q", ErrInvalidInput, opt.SMILES)
		}
		return map[string]float64{chem.MolecularWeight: d.MolecularWeight, chem.AlogP: d.AlogP}, nil
	}
	in := opt.In
	if in == nil {
		return nil, fmt.Errorf("%w: no input", ErrInvalidInput)
	}
	out := opt.Out
	if out == nil {
		out = io.Discard
	}
	r := bufio.NewReader(in)
	// a bad first value stops before the second prompt
	mwRaw, err := prompt(r, out, PromptMW)
	if err != nil {
		return nil, err
	}
	mw, err := ParseFeature(mwRaw)
	if err != nil {
		return nil, err
	}
	alogpRaw, err := prompt(r, out, PromptAlogP)
	if err != nil {
		return nil, err
	}
	alogp, err := ParseFeature(alogpRaw)
	if err != nil {
		return nil, err
	}
	return map[string]float64{chem.MolecularWeight: mw, chem.AlogP: alogp}, nil
}

// prompt reads one line. EOF before any input counts as invalid input.
func prompt(r *bufio.Reader, out io.Writer, msg string) (string, error) {
	fmt.Fprint(out, msg)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", fmt.Errorf("%w: no input", ErrInvalidInput)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
