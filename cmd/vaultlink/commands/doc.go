// Package commands defines the vaultlink CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init       Generate the root secret and print the recovery phrase
//   - recover    Restore the root secret from a recovery phrase
//   - mnemonic   Show the recovery phrase again
//   - pair       Complete a pairing handshake from a peer's request blob
//   - listen     Serve incoming requests from all paired sessions
//   - poll       Run one delivery cycle for a single session
//   - sessions   List or remove paired sessions
//   - rotate     Apply a team session's pending key rotations
//   - account    Add, show, or list vault accounts
//   - password   Derive a deterministic site password
//   - audit      Show the authorization trail for a session
//
// # Implementation
//
// The root command loads config.yml and opens the sealed store before any
// subcommand runs. Commands that touch vault data unlock the root secret
// with the passphrase flag first; approval prompts go to the terminal.
package commands
