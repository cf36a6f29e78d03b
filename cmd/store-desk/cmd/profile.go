package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the extended profile of the logged-in user",
	Long: `Fetch the extended profile (phone, birth date, address) from the
privileged profile endpoint using the persisted bearer token. This is
also the first server-side validation of a restored session.`,
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.requireAuth(); err != nil {
		return err
	}

	user, err := a.session.Profile(cmd.Context())
	if err != nil {
		return err
	}

	return render(os.Stdout, user, func(w io.Writer) {
		renderProfile(w, user)
	})
}
