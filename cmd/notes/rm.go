package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var rmYes bool

var rmCmd = withAuth(&cobra.Command{
	Use:     "rm [id]",
	Aliases: []string{"delete"},
	Short:   "Delete a note",
	Long:    `rm deletes a note permanently. It asks for confirmation unless --yes is given.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if !rmYes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete note %s? [y/N] ", id)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}

		ctx, cancel := app.requestContext(cmd.Context())
		defer cancel()

		if err := app.dispatcher.Delete(ctx, id); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Note deleted: %s\n", id)
		return nil
	},
})

// confirm задает вопрос и ждет "y" или "yes"
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "delete without confirmation")
	rootCmd.AddCommand(rmCmd)
}
