package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aura-platform/aura-cli/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("aura", version.Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
