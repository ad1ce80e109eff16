package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Logout(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Logged out")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
