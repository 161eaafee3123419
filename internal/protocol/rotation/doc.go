// Package rotation implements the team re-key ratchet applied when a
// shared vault's membership or admin set changes.
//
// Out-of-order application desynchronizes the derived keys irrecoverably;
// it is detectable only as a decryption failure on the next hop, which
// surfaces as domain.ErrChainDesync and a user-visible re-pair requirement.
package rotation
