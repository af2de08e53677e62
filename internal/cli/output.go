package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"devdrawer/internal/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPlanner(w io.Writer, format string, p *models.Planner) error {
	if format == "json" {
		return writeJSON(w, p)
	}
	desc := ""
	if p.Description != nil {
		desc = *p.Description
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "id:\t%s\n", p.ID)
	fmt.Fprintf(tw, "title:\t%s\n", p.Title)
	fmt.Fprintf(tw, "description:\t%s\n", desc)
	fmt.Fprintf(tw, "updated:\t%s\n", p.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "content:\t%d bytes\n", len(p.Content))
	return tw.Flush()
}

func printPlanners(w io.Writer, format string, planners []models.Planner, total int) error {
	if format == "json" {
		return writeJSON(w, map[string]any{"planners": planners, "total": total})
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tUPDATED")
	for _, p := range planners {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Title, p.UpdatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d of %d planner(s)\n", len(planners), total)
	return err
}
