package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notes-app/internal/model"
)

var (
	editText  string
	editTitle string
)

var editCmd = withAuth(&cobra.Command{
	Use:   "edit [id]",
	Short: "Change the text or title of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch model.NotePatch
		if cmd.Flags().Changed("text") {
			patch.Text = &editText
		}
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}

		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		note, err := app.dispatcher.Update(ctx, args[0], patch)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note updated: %s\n", note.ID)
		return nil
	},
})

func init() {
	editCmd.Flags().StringVarP(&editText, "text", "t", "", "new note text")
	editCmd.Flags().StringVar(&editTitle, "title", "", "new note title")
	rootCmd.AddCommand(editCmd)
}
