package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/covfold/internal/domain"
	m "gooze.dev/pkg/covfold/internal/model"
)

var mergeParallelFlag int

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge coverage fragments into a single report",
		Long: `Merge every coverage fragment found in the fragment directory into one
Clover XML report. A missing fragment directory is not an error: the command
logs it and exits cleanly without touching any previous report.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Merge(context.Background(), domain.MergeArgs{
				Fragments: m.Path(viper.GetString(fragmentsFlagName)),
				Output:    m.Path(viper.GetString(outputFlagName)),
				Include:   includeScope(),
				Workers:   viper.GetInt(mergeParallelConfigKey),
			})
		},
	}

	configureMergeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

func configureMergeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&mergeParallelFlag, mergeParallelFlagName, "p", viper.GetInt(mergeParallelConfigKey), "number of parallel fragment parsers")
	bindFlagToConfig(cmd.Flags().Lookup(mergeParallelFlagName), mergeParallelConfigKey)
}
