// Package authz is the per-request authorization engine.
//
// Each message type maps to exactly one authorizer; the mapping is closed
// and unknown types fail before any vault mutation. Every handled request
// follows the same ordered flow — verify the out-of-band code when the
// type demands it, invoke the external authenticator, execute the domain
// action, send the response, write the audit entry — and the audit step
// runs on every exit path.
package authz
