package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vaultlink/internal/domain"
)

// audit: show the authorization trail for one session.
func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <session-id>",
		Short: "Show audit entries for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}
			entries, err := wire.Store.ListAudit(domain.SessionID(args[0]))
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No audit entries.")
				return nil
			}
			for _, e := range entries {
				at := time.Unix(e.TimeUTC, 0).UTC().Format(time.RFC3339)
				outcome := "ok"
				switch {
				case e.Rejected:
					outcome = "rejected"
				case !e.Success:
					outcome = "failed"
				}
				line := fmt.Sprintf("%s  %-16s  %s", at, e.Type, outcome)
				if e.Error != "" {
					line += "  " + e.Error
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
