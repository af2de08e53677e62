package cli

import (
	"fmt"

	"devdrawer/internal/client"
	"github.com/spf13/cobra"
)

func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Password == "" {
				return fmt.Errorf("password required: set --password or %s", envPassword)
			}
			c, err := client.New(opts.API, opts.Timeout)
			if err != nil {
				return err
			}
			user, err := c.Register(cmd.Context(), username, email, opts.Password)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s <%s>; check your inbox to verify the address\n", user.Username, user.Email)
			return err
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
