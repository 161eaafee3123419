package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vaultlink/internal/authz"
	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
)

func sessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage paired sessions",
	}
	cmd.AddCommand(sessionsListCmd(), sessionsRemoveCmd())
	return cmd
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List paired sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			sessions, err := wire.Sessions.List()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No paired sessions.")
				return nil
			}
			for _, s := range sessions {
				created := time.Unix(s.CreatedUTC, 0).UTC().Format(time.RFC3339)
				fmt.Printf("%s  %-10s  %s  peer=%s  last-activity=%s  %s\n",
					s.ID, s.Kind, created, crypto.Fingerprint(s.PeerPub.Slice()),
					lastActivity(s.ID), s.Title)
			}
			return nil
		},
	}
}

// lastActivity is the most recent audit timestamp for the session, or a
// dash when nothing has been handled yet.
func lastActivity(id domain.SessionID) string {
	entries, err := wire.Store.ListAudit(id)
	if err != nil || len(entries) == 0 {
		return "-"
	}
	var latest int64
	for _, e := range entries {
		if e.TimeUTC > latest {
			latest = e.TimeUTC
		}
	}
	return time.Unix(latest, 0).UTC().Format(time.RFC3339)
}

func sessionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session-id>",
		Short: "Remove a session and everything queued under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			if err := wire.Sessions.Remove(domain.SessionID(args[0])); err != nil {
				return err
			}
			fmt.Println("Session removed.")
			return nil
		},
	}
}

func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <session-id>",
		Short: "Apply a team session's pending key rotations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			if len(args) != 1 {
				return fmt.Errorf("session id required")
			}
			if err := wire.Rotation.Rotate(cmd.Context(), domain.SessionID(args[0])); err != nil {
				if authz.IsRepairRequired(err) {
					return fmt.Errorf("rotation chain is desynchronized; remove session %s and pair again: %w", args[0], err)
				}
				return err
			}
			fmt.Println("Rotation chain applied.")
			return nil
		},
	}
}
