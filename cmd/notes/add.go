package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = withAuth(&cobra.Command{
	Use:   "add [text]",
	Short: "Add a note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		note, err := app.dispatcher.Create(ctx, app.owner(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note added: %s\n", note.ID)
		return nil
	},
})

func init() {
	rootCmd.AddCommand(addCmd)
}
