package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/covfold/internal/domain"
	m "gooze.dev/pkg/covfold/internal/model"
)

var remapCoverageFileFlag string
var remapConfigFileFlag string
var remapRuleFlags []string

// remapCmd represents the remap command.
var remapCmd = newRemapCmd()

func newRemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remap",
		Short: "Rewrite coverage paths to the canonical workspace root",
		Long: `Rewrite absolute paths embedded in the aggregate coverage data file and in
the coverage tool's configuration from an execution-environment root to the
canonical workspace root. Safe to run repeatedly: already-canonical paths
pass through unchanged.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Remap(context.Background(), domain.RemapArgs{
				CoverageFile: m.Path(viper.GetString(coverageFileConfigKey)),
				ConfigFile:   m.Path(viper.GetString(remapConfigFileKey)),
				Rules:        parseRules(viper.GetStringSlice(ruleConfigKey)),
			})
		},
	}

	configureRemapFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(remapCmd)
}

func configureRemapFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&remapCoverageFileFlag, coverageFileFlagName, viper.GetString(coverageFileConfigKey), "aggregate coverage data file to rewrite in place")
	bindFlagToConfig(cmd.Flags().Lookup(coverageFileFlagName), coverageFileConfigKey)

	cmd.Flags().StringVar(&remapConfigFileFlag, remapConfigFlagName, viper.GetString(remapConfigFileKey), "coverage tool configuration artifact to adjust")
	bindFlagToConfig(cmd.Flags().Lookup(remapConfigFlagName), remapConfigFileKey)

	cmd.Flags().StringArrayVarP(&remapRuleFlags, ruleFlagName, "r", viper.GetStringSlice(ruleConfigKey), "remap rule in the form FROM=TO (can be repeated, first match wins)")
	bindFlagToConfig(cmd.Flags().Lookup(ruleFlagName), ruleConfigKey)
}

// parseRules converts FROM=TO flag values into an ordered rule set.
// Malformed values are dropped.
func parseRules(values []string) m.RuleSet {
	rules := make(m.RuleSet, 0, len(values))

	for _, value := range values {
		from, to, ok := strings.Cut(value, "=")
		if !ok || from == "" {
			continue
		}

		rules = append(rules, m.RemapRule{From: from, To: to})
	}

	return rules
}
