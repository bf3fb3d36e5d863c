package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/KaramelBytes/potency-cli/internal/logger"
	"github.com/KaramelBytes/potency-cli/internal/pipeline"
)

var (
	trnDelimiter string
	trnSmilesCol string
	trnTargetCol string
	trnTestSize  float64
	trnSeed      int64
	trnTrees     int
	trnMaxDepth  int
	trnWorkers   int
	trnMW        float64
	trnAlogP     float64
	trnSMILES    string
	trnNoPredict bool
)

var trainCmd = &cobra.Command{
	Use:   "train [csv]",
	Short: "Train a potency model on a ChEMBL export and predict a new compound",
	Long: `Train loads a ';'-delimited ChEMBL export, computes MolecularWeight and
AlogP for every SMILES, fits a random forest on an 80/20 split and prints
RMSE and R-squared on the held-out rows. It then predicts the potency of a
compound given by --mw/--alogp, --smiles, or entered at the prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run := *cfg
		f := cmd.Flags()
		if f.Changed("test-size") {
			run.TestSize = trnTestSize
		}
		if f.Changed("seed") {
			run.RandomSeed = trnSeed
		}
		if f.Changed("trees") {
			run.NEstimators = trnTrees
		}
		if f.Changed("max-depth") {
			run.MaxDepth = trnMaxDepth
		}
		if f.Changed("workers") {
			run.Workers = trnWorkers
		}
		if err := run.Validate(); err != nil {
			return err
		}
		dopt, err := datasetOptions(&run, trnDelimiter, trnSmilesCol, trnTargetCol)
		if err != nil {
			return err
		}
		if f.Changed("mw") != f.Changed("alogp") {
			return errors.New("--mw and --alogp must be given together")
		}

		out := cmd.OutOrStdout()
		in := bufio.NewReader(cmd.InOrStdin())
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			path = selectFile(cmd.InOrStdin(), in, out)
		}

		opt := pipeline.Options{
			Path:      path,
			Dataset:   dopt,
			TestSize:  run.TestSize,
			Seed:      run.RandomSeed,
			Forest:    forestOptions(&run),
			NoPredict: trnNoPredict,
			SMILES:    trnSMILES,
			In:        in,
			Out:       out,
			Log:       logger.Get().With("run_id", uuid.NewString()),
		}
		if f.Changed("mw") {
			mw, alogp := trnMW, trnAlogP
			opt.MW, opt.AlogP = &mw, &alogp
		}
		return pipeline.Run(cmd.Context(), opt)
	},
}

// selectFile prompts for a CSV path when stdin is a terminal. Anything else
// counts as no selection.
func selectFile(stdin io.Reader, in *bufio.Reader, out io.Writer) string {
	fh, ok := stdin.(*os.File)
	if !ok || !term.IsTerminal(int(fh.Fd())) {
		return ""
	}
	fmt.Fprint(out, "Select ChEMBL CSV File: ")
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringVar(&trnDelimiter, "delimiter", "", "CSV delimiter: ';' | ',' | 'tab' (default from config)")
	trainCmd.Flags().StringVar(&trnSmilesCol, "smiles-col", "", "SMILES column name (default from config)")
	trainCmd.Flags().StringVar(&trnTargetCol, "target-col", "", "target column name (default from config)")
	trainCmd.Flags().Float64Var(&trnTestSize, "test-size", 0.2, "held-out fraction")
	trainCmd.Flags().Int64Var(&trnSeed, "seed", 42, "random seed for split and forest")
	trainCmd.Flags().IntVar(&trnTrees, "trees", 100, "number of trees")
	trainCmd.Flags().IntVar(&trnMaxDepth, "max-depth", 0, "maximum tree depth (0 = unlimited)")
	trainCmd.Flags().IntVar(&trnWorkers, "workers", 0, "trees fitted in parallel (0 = all CPUs)")
	trainCmd.Flags().Float64Var(&trnMW, "mw", 0, "molecular weight of the compound to predict")
	trainCmd.Flags().Float64Var(&trnAlogP, "alogp", 0, "AlogP of the compound to predict")
	trainCmd.Flags().StringVar(&trnSMILES, "smiles", "", "SMILES of the compound to predict")
	trainCmd.Flags().BoolVar(&trnNoPredict, "no-predict", false, "skip the prediction step")
}
