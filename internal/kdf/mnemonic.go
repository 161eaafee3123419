package kdf

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
)

var (
	// ErrBadMnemonicWord reports a word outside the recovery wordlist.
	ErrBadMnemonicWord = errors.New("word not in recovery wordlist")
	// ErrBadMnemonicChecksum reports a word list whose checksum matches
	// neither the current nor the legacy formula.
	ErrBadMnemonicChecksum = errors.New("mnemonic checksum mismatch")
	// ErrBadMnemonicLength reports a word list of unexpected size.
	ErrBadMnemonicLength = errors.New("unexpected mnemonic length")
)

// checksumBytes is entropy length / 4: 8 checksum bytes for a 32-byte root.
const checksumBytes = RootBytes / 4

// mnemonicWords is the total word count: one word per entropy byte plus one
// per checksum byte.
const mnemonicWords = RootBytes + checksumBytes

// checksum is the current formula: a SHA-256 prefix of the entropy.
func checksum(entropy []byte) []byte {
	sum := sha256.Sum256(entropy)
	return sum[:checksumBytes]
}

// legacyChecksum is the older hash-based formula still accepted on
// recovery so mnemonics issued before the format change keep working.
func legacyChecksum(entropy []byte) []byte {
	sum := sha1.Sum(entropy)
	return sum[:checksumBytes]
}

// Mnemonic encodes a root secret as a checksummed recovery word list.
// New mnemonics always carry the current checksum.
func Mnemonic(secret []byte) ([]string, error) {
	if len(secret) != RootBytes {
		return nil, fmt.Errorf("mnemonic: root secret must be %d bytes, got %d", RootBytes, len(secret))
	}
	data := make([]byte, 0, mnemonicWords)
	data = append(data, secret...)
	data = append(data, checksum(secret)...)

	words := make([]string, len(data))
	for i, b := range data {
		words[i] = wordlist[b]
	}
	return words, nil
}

// LegacyMnemonic encodes a root secret with the legacy checksum formula.
// Only used to verify the backward-compatible acceptance path; new
// mnemonics come from Mnemonic.
func LegacyMnemonic(secret []byte) ([]string, error) {
	if len(secret) != RootBytes {
		return nil, fmt.Errorf("mnemonic: root secret must be %d bytes, got %d", RootBytes, len(secret))
	}
	data := make([]byte, 0, mnemonicWords)
	data = append(data, secret...)
	data = append(data, legacyChecksum(secret)...)

	words := make([]string, len(data))
	for i, b := range data {
		words[i] = wordlist[b]
	}
	return words, nil
}

// RootFromMnemonic reconstructs the root secret from a recovery word list,
// validating the checksum before accepting it. Both the current and the
// legacy checksum formulas are accepted.
func RootFromMnemonic(words []string) ([]byte, error) {
	if len(words) != mnemonicWords {
		return nil, fmt.Errorf("%w: got %d words, want %d", ErrBadMnemonicLength, len(words), mnemonicWords)
	}
	data := make([]byte, len(words))
	for i, w := range words {
		b, ok := wordIndex[w]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadMnemonicWord, w)
		}
		data[i] = b
	}
	entropy, sum := data[:RootBytes], data[RootBytes:]

	current := subtle.ConstantTimeCompare(sum, checksum(entropy)) == 1
	legacy := subtle.ConstantTimeCompare(sum, legacyChecksum(entropy)) == 1
	if !current && !legacy {
		return nil, ErrBadMnemonicChecksum
	}
	return entropy, nil
}
