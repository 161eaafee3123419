// Package app loads configuration and assembles the dependency graph the
// CLI runs on: store, relay client, services, and the authorization
// engine, keyed on the unlocked root secret.
package app
