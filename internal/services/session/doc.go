// Package session manages paired-session records: creation, lookup,
// removal, and serialized in-place updates.
package session
