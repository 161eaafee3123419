// Package main runs the in-memory HTTP relay used by vaultlink during
// development and tests. It queues encrypted payloads per session and
// stages rotation chains; it never sees plaintext or private keys.
//
// HTTP API
//
//	POST /session/{id}/publish { "cipher": base64 }
//	    Enqueue a ciphertext on the session's persistent queue. The relay
//	    assigns each message a delivery token.
//
//	GET /session/{id}/messages?wait=N
//	    Return all queued messages, holding up to N seconds when the queue
//	    is empty. Messages stay queued until acknowledged.
//
//	POST /session/{id}/ack { "token": t }
//	    Delete the queued message with delivery token t.
//
//	GET /session/{id}/rotation
//	    Return the session's pending rotation entries in staging order.
//
//	POST /session/{id}/rotation { "cipher": base64 }
//	    Stage one rotation entry (admin side).
//
//	POST /session/{id}/signing-key { "public_key": base64, "fence": n }
//	    Install the device's post-rotation signing key. The fence must
//	    match the pending-entry count the device consumed; a mismatch is
//	    answered with 409 and the device must re-fetch.
//
// All state is held in memory and lost on process exit. The default
// listen address is :8080.
package main
