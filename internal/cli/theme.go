package cli

import (
	"fmt"

	"devdrawer/internal/appstate"
	"github.com/spf13/cobra"
)

func NewThemeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the saved color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.StatePath
			if path == "" {
				var err error
				if path, err = appstate.DefaultStatePath(); err != nil {
					return fmt.Errorf("locate state file: %w", err)
				}
			}

			store, err := appstate.NewStore(appstate.YAMLPersister{Path: path})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			if len(args) == 1 {
				switch args[0] {
				case "toggle":
					if _, err := store.ToggleTheme(); err != nil {
						return err
					}
				default:
					theme, err := appstate.ParseTheme(args[0])
					if err != nil {
						return err
					}
					if err := store.SetTheme(theme); err != nil {
						return err
					}
				}
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), store.Theme())
			return err
		},
	}
}
