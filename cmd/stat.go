package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gooze.dev/pkg/covfold/internal/domain"
	m "gooze.dev/pkg/covfold/internal/model"
)

// statCmd represents the stat command.
var statCmd = newStatCmd()

func newStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Show per-file coverage from a merged report",
		Long:  "Show a per-file statement coverage table from a previously merged report.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Summary(context.Background(), domain.SummaryArgs{
				Report: m.Path(viper.GetString(outputFlagName)),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(statCmd)
}
