package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "islet.dev/pkg/islet/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered test files",
		Long:  "List the test files discovery would run, without executing them.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := resolveWorkflow(cmd).List(cmd.Context(), m.Path(viper.GetString(testsConfigKey)))
			if err != nil {
				return err
			}

			for _, file := range files {
				cmd.Println(file)
			}

			cmd.Printf("%d test file(s)\n", len(files))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
