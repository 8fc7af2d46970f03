package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rogersnm/todo/internal/notify"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Alert for open tasks due today until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if !cmd.Flags().Changed("interval") {
			if d, _ := cfg.Interval(); d > 0 {
				interval = d
			}
		}
		if !eng.Settings().Notifications {
			fmt.Println("Notifications are off. Turn them on with: todo notifications on")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w := &notify.Watcher{
			Interval: interval,
			Check: func() error {
				if err := eng.Reload(); err != nil {
					return err
				}
				_, err := eng.CheckDue()
				return err
			},
		}
		fmt.Printf("Watching for tasks due today every %s (Ctrl+C to stop)\n", interval)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().Duration("interval", notify.DefaultInterval, "time between checks")
	rootCmd.AddCommand(watchCmd)
}
