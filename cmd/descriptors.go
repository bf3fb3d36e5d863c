package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/potency-cli/internal/chem"
	"github.com/KaramelBytes/potency-cli/internal/logger"
)

var descTypes bool

var descriptorsCmd = &cobra.Command{
	Use:   "descriptors <smiles...>",
	Short: "Compute MolecularWeight and AlogP for SMILES strings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "SMILES\t%s\t%s\n", chem.MolecularWeight, chem.AlogP)
		for _, s := range args {
			m, err := chem.ParseSMILES(s)
			if err != nil {
				logger.Get().Debugw("invalid smiles", "smiles", s, "error", err)
				fmt.Fprintf(out, "%s\tinvalid\n", s)
				continue
			}
			d := chem.Calculate(m)
			fmt.Fprintf(out, "%s\t%.3f\t%.4f", s, d.MolecularWeight, d.AlogP)
			if descTypes {
				fmt.Fprintf(out, "\t%s", strings.Join(chem.CrippenTypes(m), ","))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(descriptorsCmd)
	descriptorsCmd.Flags().BoolVar(&descTypes, "types", false, "append the Crippen atom types")
}
