// Package relay implements the HTTP client for the untrusted relay server.
//
// The relay stores and forwards ciphertexts; it never sees plaintext or
// long-term secrets. Non-2xx responses and transport failures surface as
// *domain.RelayError.
package relay
