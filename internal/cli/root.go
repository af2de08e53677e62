// Package cli implements plannerctl, a command-line client for the DevDrawer API.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"devdrawer/internal/client"
	"github.com/spf13/cobra"
)

const (
	envAPIURL     = "PLANNER_API_URL"
	envIdentifier = "PLANNER_IDENTIFIER"
	envPassword   = "PLANNER_PASSWORD"

	defaultAPIURL = "http://localhost:8080"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	API        string
	Identifier string
	Password   string
	Format     string
	Timeout    time.Duration
	StatePath  string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Manage DevDrawer planners from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.API, "api", envOr(envAPIURL, defaultAPIURL), "API base URL (env "+envAPIURL+")")
	flags.StringVarP(&opts.Identifier, "user", "u", os.Getenv(envIdentifier), "email or username (env "+envIdentifier+")")
	flags.StringVar(&opts.Password, "password", os.Getenv(envPassword), "password (env "+envPassword+")")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.DurationVar(&opts.Timeout, "timeout", 15*time.Second, "per-request timeout")
	flags.StringVar(&opts.StatePath, "state", "", "path of the local state file (default: user config dir)")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewRenameCommand(opts))
	cmd.AddCommand(NewDuplicateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewThemeCommand(opts))

	return cmd
}

// login returns a client holding a fresh session for the configured user.
func login(ctx context.Context, opts *RootOptions) (*client.Client, error) {
	if opts.Identifier == "" || opts.Password == "" {
		return nil, fmt.Errorf("credentials required: set --user/--password or %s/%s", envIdentifier, envPassword)
	}
	c, err := client.New(opts.API, opts.Timeout)
	if err != nil {
		return nil, err
	}
	if _, err := c.Login(ctx, opts.Identifier, opts.Password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
