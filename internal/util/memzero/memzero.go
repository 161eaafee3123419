// Package memzero wipes key material once it is no longer needed: root
// secrets, derivation seeds, and the store sealing key all pass through
// here on their way out of scope.
package memzero

import "crypto/subtle"

// Zero overwrites b in place. The constant-time copy keeps the write from
// being elided the way a plain clearing loop can be.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
