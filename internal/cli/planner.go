package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"devdrawer/internal/client"
	"devdrawer/internal/models"
	"github.com/spf13/cobra"
)

func NewListCommand(opts *RootOptions) *cobra.Command {
	var page, perPage int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your planners, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			list, err := c.ListPlanners(cmd.Context(), page, perPage)
			if err != nil {
				return err
			}
			return printPlanners(cmd.OutOrStdout(), opts.Format, list.Planners, list.Meta.Total)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "planners per page")
	return cmd
}

func NewCreateCommand(opts *RootOptions) *cobra.Command {
	var description, contentFile string

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := client.NewPlanner{Title: args[0]}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if contentFile != "" {
				raw, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("read content: %w", err)
				}
				if !json.Valid(raw) {
					return fmt.Errorf("%s does not contain valid JSON", contentFile)
				}
				in.Content = models.Content(raw)
			}

			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			p, err := c.CreatePlanner(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printPlanner(cmd.OutOrStdout(), opts.Format, p)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "planner description")
	cmd.Flags().StringVar(&contentFile, "content", "", "file holding the initial JSON content")
	return cmd
}

func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			p, err := c.GetPlanner(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printPlanner(cmd.OutOrStdout(), opts.Format, p)
		},
	}
}

func NewRenameCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change a planner's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			title := args[1]
			p, err := c.UpdatePlanner(cmd.Context(), args[0], client.PlannerPatch{Title: &title})
			if err != nil {
				return err
			}
			return printPlanner(cmd.OutOrStdout(), opts.Format, p)
		},
	}
}

func NewDuplicateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			p, err := c.DuplicatePlanner(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printPlanner(cmd.OutOrStdout(), opts.Format, p)
		},
	}
}

func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a planner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := login(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := c.DeletePlanner(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}
