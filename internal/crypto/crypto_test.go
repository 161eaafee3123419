package crypto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

func TestSealedBox_RoundTrip(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	ct, err := crypto.SealedEncrypt([]byte("pairing response"), pub)
	require.NoError(t, err)

	pt, err := crypto.SealedOpen(ct, pub, priv)
	require.NoError(t, err)
	require.Equal(t, []byte("pairing response"), pt)
}

func TestSealedBox_WrongKeyFailsClosed(t *testing.T) {
	_, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	otherPriv, otherPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	ct, err := crypto.SealedEncrypt([]byte("secret"), pub)
	require.NoError(t, err)

	_, err = crypto.SealedOpen(ct, otherPub, otherPriv)
	require.ErrorIs(t, err, domain.ErrCryptoFailure)
}

func TestSymmetric_RoundTrip(t *testing.T) {
	var key domaintypes.SymmetricKey
	key[0] = 0x99

	ct, err := crypto.SymmetricSeal(key, []byte("payload"))
	require.NoError(t, err)

	pt, err := crypto.SymmetricOpen(key, ct)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), pt)
}

func TestSymmetric_TamperFailsClosed(t *testing.T) {
	var key domaintypes.SymmetricKey
	ct, err := crypto.SymmetricSeal(key, []byte("payload"))
	require.NoError(t, err)

	ct[len(ct)-1] ^= 0x01
	_, err = crypto.SymmetricOpen(key, ct)
	require.ErrorIs(t, err, domain.ErrCryptoFailure)

	_, err = crypto.SymmetricOpen(key, []byte{0x01})
	require.ErrorIs(t, err, domain.ErrCryptoFailure)
}

func TestSecretbox_RoundTrip(t *testing.T) {
	var key domaintypes.SymmetricKey
	key[31] = 0x1f

	ct, err := crypto.SecretboxSeal(key, []byte("legacy payload"))
	require.NoError(t, err)

	pt, err := crypto.SecretboxOpen(key, ct)
	require.NoError(t, err)
	require.Equal(t, []byte("legacy payload"), pt)

	ct[24] ^= 0x01
	_, err = crypto.SecretboxOpen(key, ct)
	require.ErrorIs(t, err, domain.ErrCryptoFailure)
}

func TestSignVerify(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	require.NoError(t, err)

	sig := crypto.Sign(priv, []byte("publish request"))
	require.True(t, crypto.Verify(pub, []byte("publish request"), sig))
	require.False(t, crypto.Verify(pub, []byte("tampered"), sig))
}

func TestEd25519FromSeed_Deterministic(t *testing.T) {
	seed := make([]byte, 32)
	seed[5] = 0xaa

	_, pubA := crypto.Ed25519FromSeed(seed)
	_, pubB := crypto.Ed25519FromSeed(seed)
	require.Equal(t, pubA, pubB)
}

func TestDH_Commutes(t *testing.T) {
	aPriv, aPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	bPriv, bPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	ab, err := crypto.DH(aPriv, bPub)
	require.NoError(t, err)
	ba, err := crypto.DH(bPriv, aPub)
	require.NoError(t, err)
	require.Equal(t, ab, ba)
}

func TestTOTP_StableWithinPeriod(t *testing.T) {
	secret := []byte("12345678901234567890")
	at := time.Unix(59, 0)

	code := crypto.TOTP(secret, at)
	require.Len(t, code, 6)
	require.Equal(t, code, crypto.TOTP(secret, time.Unix(31, 0)))
	require.NotEqual(t, code, crypto.TOTP(secret, time.Unix(61, 0)))
}

func TestFingerprint_ShortStableHex(t *testing.T) {
	fp := crypto.Fingerprint([]byte("peer public key"))
	require.IsType(t, domaintypes.Fingerprint(""), fp)
	require.Len(t, fp.String(), 20)
	require.Equal(t, fp, crypto.Fingerprint([]byte("peer public key")))
	require.NotEqual(t, fp, crypto.Fingerprint([]byte("another key")))
}
