// Package cmd provides the root command and CLI setup for islet.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"islet.dev/pkg/islet/internal/adapter"
	"islet.dev/pkg/islet/internal/controller"
	"islet.dev/pkg/islet/internal/domain"
	m "islet.dev/pkg/islet/internal/model"
)

// workflow is the shared application service. It is built lazily so flags
// and config are resolved first; tests swap it for a mock.
var workflow domain.Workflow

// Root-level flags shared by commands.
var testsDirFlag string
var unitsDirFlag string
var reportsOutputDirFlag string
var artifactFlag string
var tuiFlag bool
var verboseFlag bool

const rootLongDescription = `Islet is a module-isolation test harness: test files load module-pattern
source units while controlling which of their dependencies are the real
implementation, a synthetic stub, or a hybrid with selected members
overridden. Each test file runs against a freshly reset global-namespace
sandbox, so no state leaks between files.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "islet",
		Short: "Module-isolation test harness",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(
		&testsDirFlag, testsFlagName, "t",
		viper.GetString(testsConfigKey),
		"directory test files are discovered under",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(testsFlagName), testsConfigKey)

	cmd.PersistentFlags().StringVarP(
		&unitsDirFlag, unitsFlagName, "u",
		viper.GetString(unitsConfigKey),
		"root directory source unit locators resolve against",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(unitsFlagName), unitsConfigKey)

	cmd.PersistentFlags().StringVarP(
		&reportsOutputDirFlag, outputFlagName, "o",
		viper.GetString(outputFlagName),
		"output directory for run reports",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(
		&artifactFlag, artifactFlagName,
		viper.GetString(artifactConfigKey),
		"path of the rendered-output HTML artifact (default <output>/rendered.html)",
	)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(artifactFlagName), artifactConfigKey)

	cmd.PersistentFlags().BoolVar(&tuiFlag, tuiFlagName, viper.GetBool(tuiConfigKey), "force the live terminal display")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(tuiFlagName), tuiConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// buildWorkflow wires the concrete adapters into the domain service.
func buildWorkflow(cmd *cobra.Command) domain.Workflow {
	unitsRoot := m.Path(viper.GetString(unitsConfigKey))

	ui := controller.NewUI(cmd, viper.GetBool(tuiConfigKey) || controller.IsTTY(os.Stdout))

	sandbox := domain.NewSandbox()
	runner := domain.NewRunner(
		adapter.NewLocalSuiteFSAdapter(),
		adapter.NewLocalUnitSourceAdapter(unitsRoot),
		sandbox,
		ui,
	)

	return domain.NewWorkflow(
		runner,
		adapter.NewLocalReportStore(),
		adapter.NewHTMLArtifactWriter(),
		ui,
	)
}

// resolveWorkflow returns the injected workflow or builds the real one.
func resolveWorkflow(cmd *cobra.Command) domain.Workflow {
	if workflow != nil {
		return workflow
	}

	return buildWorkflow(cmd)
}

// artifactPath resolves the artifact location, defaulting under the
// reports directory.
func artifactPath() m.Path {
	if path := viper.GetString(artifactConfigKey); path != "" {
		return m.Path(path)
	}

	return m.Path(filepath.Join(viper.GetString(outputFlagName), "rendered.html"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
