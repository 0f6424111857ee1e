package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "islet.dev/pkg/islet/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "View the most recent run report",
		Long:  "Render the most recently saved run report from the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resolveWorkflow(cmd).View(cmd.Context(), m.Path(viper.GetString(outputFlagName)))
		},
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
