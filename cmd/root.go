// Package cmd provides the root command and CLI setup for covfold.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gooze.dev/pkg/covfold/internal/adapter"
	"gooze.dev/pkg/covfold/internal/controller"
	"gooze.dev/pkg/covfold/internal/domain"
	m "gooze.dev/pkg/covfold/internal/model"
)

var fragmentStore adapter.FragmentStore
var reportWriter adapter.ReportWriter
var istanbulFile adapter.IstanbulFile
var coverageConfigStore adapter.CoverageConfigStore
var aggregator domain.Aggregator
var canonicalizer domain.Canonicalizer
var workflow domain.Workflow
var ui controller.UI

// reportOutputFlag is a root-level flag shared by commands that read/write
// the report artifact.
var reportOutputFlag string

// fragmentsDirFlag points at the fragment store directory.
var fragmentsDirFlag string

// includePrefixes is a root-level flag holding the inclusion scope.
var includePrefixes []string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

func init() {
	// Initialize shared dependencies.
	ui = controller.NewSimpleUI(rootCmd)
	fragmentStore = adapter.NewLocalFragmentStore()
	reportWriter = adapter.NewLocalReportWriter()
	istanbulFile = adapter.NewLocalIstanbulFile()
	coverageConfigStore = adapter.NewLocalCoverageConfigStore()
	aggregator = domain.NewAggregator(fragmentStore)
	canonicalizer = domain.NewCanonicalizer(istanbulFile, coverageConfigStore)
	workflow = domain.NewWorkflow(
		fragmentStore,
		reportWriter,
		ui,
		aggregator,
		canonicalizer,
	)
}

const rootLongDescription = `covfold merges line-coverage fragments written by independently executed
instrumented test processes into a single Clover XML report, and rewrites
container paths embedded in coverage data so every format agrees on one
canonical workspace root.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covfold",
		Short: "Coverage fragment aggregation tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportOutputFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output path for the merged coverage report",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&fragmentsDirFlag, fragmentsFlagName, "f",
			viper.GetString(fragmentsFlagName),
			"directory holding coverage fragment files",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(fragmentsFlagName), fragmentsFlagName)

	cmd.PersistentFlags().StringArrayVarP(&includePrefixes, includeFlagName, "i", viper.GetStringSlice(includeConfigKey), "include only paths under this prefix (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(includeFlagName), includeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// includeScope builds the inclusion scope from config/flag values.
func includeScope() m.InclusionScope {
	prefixes := viper.GetStringSlice(includeConfigKey)

	scope := make(m.InclusionScope, 0, len(prefixes))
	for _, prefix := range prefixes {
		scope = append(scope, m.Path(prefix))
	}

	return scope
}
