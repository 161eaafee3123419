package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
)

// pair: accept a peer's pairing request (base64 JSON, as scanned or
// pasted) and complete the handshake through the relay.
func pairCmd() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "pair [request]",
		Short: "Complete a pairing handshake from a peer's request blob",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := unlock(); err != nil {
				return err
			}

			var blob string
			switch {
			case fromFile != "":
				raw, err := os.ReadFile(fromFile)
				if err != nil {
					return err
				}
				blob = string(raw)
			case len(args) == 1:
				blob = args[0]
			default:
				return fmt.Errorf("pass the request blob as an argument or via --file")
			}

			raw, err := base64.StdEncoding.DecodeString(blob)
			if err != nil {
				return fmt.Errorf("decode pairing request: %w", err)
			}
			var request domain.PairingRequest
			if err := json.Unmarshal(raw, &request); err != nil {
				return fmt.Errorf("parse pairing request: %w", err)
			}

			session, err := wire.Pairing.Pair(cmd.Context(), request)
			if err != nil {
				return err
			}

			code, err := kdf.VerificationCode(session.SharedSecret)
			if err != nil {
				return err
			}
			fmt.Printf("Paired session %s (%s)\n", session.ID, session.Kind)
			fmt.Printf("Peer fingerprint:  %s\n", crypto.Fingerprint(session.PeerPub.Slice()))
			fmt.Printf("Verification code: %s\n", code)
			fmt.Println("Compare the code on both devices before trusting the session.")
			return nil
		},
	}
	cmd.Flags().StringVar(&fromFile, "file", "", "read the request blob from a file")
	return cmd
}
