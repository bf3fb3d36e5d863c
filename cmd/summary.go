package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/potency-cli/internal/dataset"
	"github.com/KaramelBytes/potency-cli/internal/logger"
	"github.com/KaramelBytes/potency-cli/internal/pipeline"
)

var (
	sumDelimiter string
	sumSmilesCol string
	sumTargetCol string
	sumDecimal   string
	sumFit       bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary <csv>",
	Short: "Summarize descriptors and targets of a compound CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := datasetOptions(cfg, sumDelimiter, sumSmilesCol, sumTargetCol)
		if err != nil {
			return err
		}
		switch sumDecimal {
		case ",", "comma":
			opt.DecimalSeparator = ','
		case ".", "dot":
			opt.DecimalSeparator = '.'
		case "":
		default:
			return fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", sumDecimal)
		}

		tbl, err := dataset.Load(args[0], opt)
		if err != nil {
			return err
		}
		ft := dataset.Assemble(tbl, opt)
		rep := dataset.Summarize(tbl.Name, ft, opt.TargetColumn)

		if sumFit && ft.Len() >= 2 {
			res, err := pipeline.Train(cmd.Context(), ft, cfg.TestSize, cfg.RandomSeed, forestOptions(cfg)...)
			if err != nil {
				return err
			}
			m := &dataset.ModelSummary{
				Trees: len(res.Model.Forest.Trees),
				Train: len(res.Train),
				Test:  len(res.Test),
				RMSE:  res.RMSE,
				R2:    res.R2,
				MAE:   res.MAE,
			}
			for i, v := range res.Model.Forest.FeatureImportances() {
				m.Importances = append(m.Importances, dataset.Importance{Name: res.Model.Columns[i], Value: v})
			}
			rep.Model = m
			logger.Get().Debugw("summary model fitted", "rmse", res.RMSE, "r2", res.R2)
		}
		fmt.Fprintln(cmd.OutOrStdout(), rep.Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&sumDelimiter, "delimiter", "", "CSV delimiter: ';' | ',' | 'tab' (default from config)")
	summaryCmd.Flags().StringVar(&sumSmilesCol, "smiles-col", "", "SMILES column name (default from config)")
	summaryCmd.Flags().StringVar(&sumTargetCol, "target-col", "", "target column name (default from config)")
	summaryCmd.Flags().StringVar(&sumDecimal, "decimal", "", "decimal separator for targets: '.'|'comma' (auto-detect if omitted)")
	summaryCmd.Flags().BoolVar(&sumFit, "fit", false, "train a model and add metrics and feature importances")
}
