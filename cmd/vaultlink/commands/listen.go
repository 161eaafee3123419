package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vaultlink/internal/authz"
	"vaultlink/internal/domain"
)

// listen: long-poll every paired session and process requests until
// interrupted.
func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Serve incoming requests from all paired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Println("Listening. Ctrl-C to stop.")
			err := wire.Channel.Listen(ctx, pollWait())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// poll: one delivery cycle for a single session.
func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll <session-id>",
		Short: "Fetch and process queued requests for one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			n, err := wire.Channel.Poll(cmd.Context(), domain.SessionID(args[0]), pollWait())
			if authz.IsRepairRequired(err) {
				return fmt.Errorf("session %s can no longer decrypt its peer; remove it and pair again: %w", args[0], err)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Processed %d request(s).\n", n)
			return nil
		},
	}
}

func pollWait() time.Duration {
	return time.Duration(wire.Config.PollWait) * time.Second
}
