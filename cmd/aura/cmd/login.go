package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string

	readPasswordFunc = term.ReadPassword // mockable
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the AURA backend",
	Long: `Authenticate with email and password and store the session locally.

The password is prompted interactively unless --password is given (useful
for scripting, but it leaks into shell history).`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")

	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")

		raw, err := readPasswordFunc(int(os.Stdin.Fd()))

		fmt.Fprintln(os.Stderr)

		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		password = string(raw)
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	sess, err := client.Login(cmd.Context(), loginEmail, password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", sess.User.Email, sess.User.Role)

	return nil
}
