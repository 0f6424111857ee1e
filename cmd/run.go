package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"islet.dev/pkg/islet/internal/domain"
	m "islet.dev/pkg/islet/internal/model"
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [file]",
		Short: "Run discovered test files",
		Long: `Run every discovered test file under the tests directory, or only the
given file. Each file executes against a freshly reset sandbox; the exit
code is nonzero when any file contains a failure.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var single m.Path
			if len(args) == 1 {
				single = m.Path(args[0])
			}

			summary, err := resolveWorkflow(cmd).Test(cmd.Context(), domain.TestArgs{
				TestRoot: m.Path(viper.GetString(testsConfigKey)),
				Single:   single,
				Reports:  m.Path(viper.GetString(outputFlagName)),
				Artifact: artifactPath(),
			})
			if err != nil {
				return err
			}

			if !summary.Ok() {
				return fmt.Errorf("%d of %d test file(s) failed", summary.FailedFiles(), len(summary.Files))
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
