package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"notes-app/internal/model"
)

var listJSON bool

var listCmd = withAuth(&cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		if err := app.dispatcher.Refresh(ctx); err != nil {
			return err
		}

		notes := app.dispatcher.State().Notes
		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}
		return printNotes(cmd.OutOrStdout(), notes)
	},
})

func printNotes(w io.Writer, notes []model.Note) error {
	if len(notes) == 0 {
		_, err := fmt.Fprintln(w, "No notes yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range notes {
		text := strings.ReplaceAll(n.Text, "\n", " ")
		if n.Title != "" {
			text = n.Title + ": " + text
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.ID, n.UpdatedAt.Local().Format(time.DateTime), text)
	}
	return tw.Flush()
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output notes as JSON")
	rootCmd.AddCommand(listCmd)
}
