package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}

		sess := client.Session()
		if !sess.Authenticated() {
			fmt.Println("Not logged in. Run 'aura login' to sign in.")

			return nil
		}

		fmt.Printf("User:  %s (%s)\n", sess.User.Email, sess.User.Name)
		fmt.Printf("Role:  %s\n", sess.User.Role)

		if expiry, err := sess.TokenExpiry(); err == nil {
			remaining := time.Until(expiry).Round(time.Second)
			if remaining > 0 {
				fmt.Printf("Token: expires in %s\n", remaining)
			} else {
				fmt.Println("Token: expired (will refresh on next request)")
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
