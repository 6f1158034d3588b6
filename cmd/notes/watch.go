package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"notes-app/internal/remote/grpcstore"
)

var watchCmd = withAuth(&cobra.Command{
	Use:   "watch",
	Short: "Print changes to your notes as they happen",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.watcher == nil {
			return errors.New("watch is not available offline")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching for changes, press Ctrl+C to stop")
		return app.watcher.Watch(ctx, func(e grpcstore.Event) {
			fmt.Fprintf(out, "%-8s %s\t%s\n", e.Type, e.Note.ID, e.Note.Text)
		})
	},
})

func init() {
	rootCmd.AddCommand(watchCmd)
}
