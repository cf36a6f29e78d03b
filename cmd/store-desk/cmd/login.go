package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in against the identity endpoint",
	Long: `Log in with demo API credentials and persist the session.

On success the profile and bearer token are stored under the data
directory, so subsequent commands run authenticated until logout.

Example:
  store-desk login -u emilys -p emilyspass`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "demo API username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "demo API password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.session.Login(cmd.Context(), loginUsername, loginPassword); err != nil {
		// The store has already recorded the failure in its error field;
		// surface the same message to the terminal.
		return fmt.Errorf("login failed: %s", a.session.Snapshot().Err)
	}

	user := a.session.Snapshot().User
	fmt.Fprintf(os.Stdout, "Logged in as %s (@%s)\n", user.FullName(), user.Username)
	return nil
}
