package cmd

import (
	"github.com/spf13/cobra"
)

// screenCmd is an explicit alias for the default run behavior, handy
// when scripts want the intent spelled out.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Start a screening session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}
