// Package channel carries encrypted payloads between the vault and its
// paired peers over the relay, in two delivery models: fire-and-forget for
// outbound responses and guaranteed poll-and-acknowledge for inbound
// requests. The envelope format is versioned per session so older paired
// sessions keep decrypting.
package channel
