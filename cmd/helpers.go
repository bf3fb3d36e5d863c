package cmd

import (
	"fmt"
	"strings"

	cfgpkg "github.com/KaramelBytes/potency-cli/internal/config"
	"github.com/KaramelBytes/potency-cli/internal/dataset"
	"github.com/KaramelBytes/potency-cli/internal/forest"
)

// parseDelimiter accepts ',', ';', 'tab' or any single character.
func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	}
	if r := []rune(s); len(r) == 1 {
		return r[0], nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %q", s)
}

// datasetOptions builds loader options from config and flag overrides.
func datasetOptions(c *cfgpkg.Global, delimiter, smilesCol, targetCol string) (dataset.Options, error) {
	opt := dataset.Options{
		Delimiter:    c.DelimiterRune(),
		SMILESColumn: c.SMILESColumn,
		TargetColumn: c.TargetColumn,
	}
	if delimiter != "" {
		d, err := parseDelimiter(delimiter)
		if err != nil {
			return opt, err
		}
		opt.Delimiter = d
	}
	if smilesCol != "" {
		opt.SMILESColumn = smilesCol
	}
	if targetCol != "" {
		opt.TargetColumn = targetCol
	}
	return opt, nil
}

// forestOptions maps the configured hyperparameters onto the regressor.
func forestOptions(c *cfgpkg.Global) []forest.Option {
	return []forest.Option{
		forest.WithNEstimators(c.NEstimators),
		forest.WithMaxDepth(c.MaxDepth),
		forest.WithMinSamplesSplit(c.MinSamplesSplit),
		forest.WithMinSamplesLeaf(c.MinSamplesLeaf),
		forest.WithMaxFeatures(c.MaxFeatures),
		forest.WithBootstrap(c.Bootstrap),
		forest.WithRandomState(c.RandomSeed),
		forest.WithWorkers(c.Workers),
	}
}
