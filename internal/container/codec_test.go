package container

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/models"
)

func fastParams() models.EncryptionParameters {
	p := models.DefaultEncryptionParameters()
	p.KeyDerivation.Iterations = 1000
	return p
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(logger.Nop(), WithDefaultParameters(fastParams()))
	require.NoError(t, err)
	return c
}

// legacyContainer produces a version 1 container the way older releases
// wrote it: legacy tag, weaker parameters and no keyType field.
func legacyContainer(t *testing.T, plaintext, password, hint string) string {
	t.Helper()
	legacy := models.LegacyEncryptionParameters()
	legacy.KeyDerivation.Iterations = 500

	old, err := NewCodec(logger.Nop(), WithDefaultParameters(legacy))
	require.NoError(t, err)

	raw, err := old.Encode(plaintext, password, hint)
	require.NoError(t, err)

	var c models.Container
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	c.Format = models.LegacyFormatTag
	c.Version = models.LegacyVersion
	c.KeyType = ""

	out, err := json.Marshal(c)
	require.NoError(t, err)
	return string(out)
}

func TestCodec_EndToEnd(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Encode("secret note", "correct-horse", "battery")
	require.NoError(t, err)

	cont, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, models.FormatTag, cont.Format)
	assert.Equal(t, models.CurrentVersion, cont.Version)
	assert.Equal(t, "battery", cont.Hint)
	assert.Equal(t, models.KeyTypePassword, cont.KeyType)
	assert.Equal(t, fastParams(), *cont.Encryption)

	plain, err := codec.Decode(raw, "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "secret note", plain)

	_, err = codec.Decode(raw, "wrong")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.False(t, IsFormatError(err))
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, plaintext := range []string{"", "a", "multi\nline\ttext", "ünïcødé ✓", string(make([]byte, 4096))} {
		raw, err := codec.Encode(plaintext, "pw", "")
		require.NoError(t, err)

		got, err := codec.Decode(raw, "pw")
		require.NoError(t, err)
		assert.Equal(t, plaintext, got)
	}
}

func TestCodec_EmptyPasswordNeverDecrypts(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Encode("x", "", "")
	assert.Error(t, err)

	raw, err := codec.Encode("x", "pw", "")
	require.NoError(t, err)
	_, err = codec.Decode(raw, "")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := newTestCodec(t)
	raw, err := codec.Encode("secret note", "pw", "")
	require.NoError(t, err)

	var cont models.Container
	require.NoError(t, json.Unmarshal([]byte(raw), &cont))
	blob, err := base64.StdEncoding.DecodeString(cont.Data)
	require.NoError(t, err)

	for i := range blob {
		for _, bit := range []byte{0x01, 0x80} {
			tampered := append([]byte(nil), blob...)
			tampered[i] ^= bit

			c := cont
			c.Data = base64.StdEncoding.EncodeToString(tampered)
			out, err := json.Marshal(c)
			require.NoError(t, err)

			plain, err := codec.Decode(string(out), "pw")
			assert.ErrorIs(t, err, ErrAuthFailed, "byte %d bit %x", i, bit)
			assert.Empty(t, plain)
		}
	}
}

func TestCodec_FreshSaltAndNonce(t *testing.T) {
	codec := newTestCodec(t)

	a, err := codec.Encode("same", "pw", "h")
	require.NoError(t, err)
	b, err := codec.Encode("same", "pw", "h")
	require.NoError(t, err)

	ca, err := Parse(a)
	require.NoError(t, err)
	cb, err := Parse(b)
	require.NoError(t, err)

	nonceA, saltA, _, err := unpack(ca)
	require.NoError(t, err)
	nonceB, saltB, _, err := unpack(cb)
	require.NoError(t, err)

	assert.NotEqual(t, ca.Data, cb.Data)
	assert.NotEqual(t, nonceA, nonceB)
	assert.NotEqual(t, saltA, saltB)
}

func TestCodec_HonoursStoredOffsets(t *testing.T) {
	p := fastParams()
	p.IVLength = 16
	p.KeyDerivation.SaltLength = 32
	writer, err := NewCodec(logger.Nop(), WithDefaultParameters(p))
	require.NoError(t, err)

	raw, err := writer.Encode("offsets", "pw", "")
	require.NoError(t, err)

	// a reader configured with different defaults must still follow the
	// lengths stored in the container
	reader := newTestCodec(t)
	plain, err := reader.Decode(raw, "pw")
	require.NoError(t, err)
	assert.Equal(t, "offsets", plain)
}

func TestCodec_ChaCha20Poly1305(t *testing.T) {
	p := fastParams()
	p.Algorithm = models.AlgorithmChaCha20Poly1305
	codec, err := NewCodec(logger.Nop(), WithDefaultParameters(p))
	require.NoError(t, err)

	raw, err := codec.Encode("chacha", "pw", "")
	require.NoError(t, err)

	plain, err := newTestCodec(t).Decode(raw, "pw")
	require.NoError(t, err)
	assert.Equal(t, "chacha", plain)
}

func TestNewCodec_RejectsInvalidDefaults(t *testing.T) {
	p := fastParams()
	p.KeySize = 100
	_, err := NewCodec(logger.Nop(), WithDefaultParameters(p))
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestCodec_KeyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Encode("first", "pw", "hint")
	require.NoError(t, err)
	cont, err := Parse(raw)
	require.NoError(t, err)

	key, err := codec.DeriveCacheKey(cont, "pw")
	require.NoError(t, err)
	assert.True(t, key.Extractable())

	plain, err := codec.DecodeWithKey(raw, key)
	require.NoError(t, err)
	assert.Equal(t, "first", plain)

	// re-encrypting with the cached key keeps the salt but not the nonce
	next, err := codec.EncodeWithKey("second", key, "hint")
	require.NoError(t, err)
	nextCont, err := Parse(next)
	require.NoError(t, err)
	assert.NotEqual(t, cont.Data, nextCont.Data)

	_, oldSalt, _, _ := unpack(cont)
	_, newSalt, _, _ := unpack(nextCont)
	assert.Equal(t, oldSalt, newSalt)

	// both the key and the password open the new container
	plain, err = codec.DecodeWithKey(next, key)
	require.NoError(t, err)
	assert.Equal(t, "second", plain)
	plain, err = codec.Decode(next, "pw")
	require.NoError(t, err)
	assert.Equal(t, "second", plain)
}

func TestCodec_KeyForOtherContainerFails(t *testing.T) {
	codec := newTestCodec(t)

	a, err := codec.Encode("a", "pw", "")
	require.NoError(t, err)
	b, err := codec.Encode("b", "pw", "")
	require.NoError(t, err)

	contA, err := Parse(a)
	require.NoError(t, err)
	keyA, err := codec.DeriveCacheKey(contA, "pw")
	require.NoError(t, err)

	_, err = codec.DecodeWithKey(b, keyA)
	assert.ErrorIs(t, err, ErrAuthFailed)

	_, err = codec.DecodeWithKey(a, nil)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestCodec_Migrate(t *testing.T) {
	codec := newTestCodec(t)
	raw := legacyContainer(t, "old note", "pw", "remember")

	old, err := Parse(raw)
	require.NoError(t, err)
	require.True(t, NeedsMigration(old))
	assert.Equal(t, models.KeyTypePassword, old.KeyType)

	// legacy containers decode under their own parameters
	plain, err := codec.Decode(raw, "pw")
	require.NoError(t, err)
	assert.Equal(t, "old note", plain)

	migrated, err := codec.Migrate(old, "pw")
	require.NoError(t, err)

	cont, err := Parse(migrated)
	require.NoError(t, err)
	assert.False(t, NeedsMigration(cont))
	assert.Equal(t, models.FormatTag, cont.Format)
	assert.Equal(t, models.CurrentVersion, cont.Version)
	assert.Equal(t, "remember", cont.Hint)
	assert.Equal(t, codec.Parameters(), *cont.Encryption)

	plain, err = codec.Decode(migrated, "pw")
	require.NoError(t, err)
	assert.Equal(t, "old note", plain)
}

func TestCodec_MigrateWrongPassword(t *testing.T) {
	codec := newTestCodec(t)
	old, err := Parse(legacyContainer(t, "old note", "pw", ""))
	require.NoError(t, err)

	_, err = codec.Migrate(old, "nope")
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.False(t, IsMigrationError(err))
}

func TestNeedsMigration_ByVersion(t *testing.T) {
	assert.True(t, NeedsMigration(&models.Container{Format: models.FormatTag, Version: 1}))
	assert.True(t, NeedsMigration(&models.Container{Format: models.LegacyFormatTag, Version: 2}))
	assert.False(t, NeedsMigration(&models.Container{Format: models.FormatTag, Version: 2}))
}

func TestCodec_DecodeRejectsExcessiveWorkFactor(t *testing.T) {
	c := validContainer(t)
	params := *c.Encryption
	params.KeyDerivation = models.KeyDerivation{
		Function: models.KDFArgon2id, Iterations: 1, SaltLength: 16, Memory: 4294967295, Parallelism: 1,
	}
	c.Encryption = &params

	_, err := newTestCodec(t).Decode(marshal(t, c), "pw")
	require.Error(t, err)
	assert.True(t, IsFormatError(err))
	assert.ErrorIs(t, err, ErrUnsupportedParameters)
	assert.NotErrorIs(t, err, ErrAuthFailed)
}

func TestCodec_CachedKeyNeverTouchesStorageDirectly(t *testing.T) {
	codec := newTestCodec(t)

	raw, err := codec.Encode("first", "pw", "")
	require.NoError(t, err)
	cont, err := Parse(raw)
	require.NoError(t, err)

	key, err := codec.DeriveCacheKey(cont, "pw")
	require.NoError(t, err)
	require.True(t, key.Extractable())

	_, err = codec.seal("x", key, "")
	assert.ErrorIs(t, err, crypto.ErrKeyExtractable)

	nonce, _, ciphertext, err := unpack(cont)
	require.NoError(t, err)
	_, err = codec.open(ciphertext, key, nonce)
	assert.ErrorIs(t, err, crypto.ErrKeyExtractable)

	// the public key operations work on a sealed copy and leave the cached
	// key intact
	next, err := codec.EncodeWithKey("second", key, "")
	require.NoError(t, err)
	plain, err := codec.DecodeWithKey(next, key)
	require.NoError(t, err)
	assert.Equal(t, "second", plain)

	exported, err := key.Export()
	require.NoError(t, err)
	assert.Len(t, exported, 32)
}
