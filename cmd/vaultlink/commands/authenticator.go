package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"vaultlink/internal/domain"
)

// terminalAuthenticator is the CLI stand-in for a device authenticator:
// it prints the prompt and waits for an explicit yes on stdin.
type terminalAuthenticator struct{}

func (terminalAuthenticator) Authenticate(ctx context.Context, prompt string) (domain.Grant, error) {
	fmt.Printf("%s [y/N]: ", prompt)

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer <- strings.ToLower(strings.TrimSpace(line))
	}()

	select {
	case <-ctx.Done():
		return domain.Grant{}, ctx.Err()
	case line := <-answer:
		if line != "y" && line != "yes" {
			return domain.Grant{}, fmt.Errorf("declined at terminal")
		}
		return domain.Grant{IssuedUTC: time.Now().Unix()}, nil
	}
}

var _ domain.Authenticator = terminalAuthenticator{}
