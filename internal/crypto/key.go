// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/subtle"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/MKhiriev/go-note-vault/models"
)

// KeyType tags which provider produced a key.
type KeyType string

// KeyTypePassword identifies keys derived from a user password.
const KeyTypePassword KeyType = models.KeyTypePassword

// Key is an opaque handle to a derived symmetric key.
//
// The raw bytes live in a memguard enclave (encrypted at rest in process
// memory) and are only decrypted into a locked buffer for the duration of a
// single cipher operation. The handle also records the salt and parameters
// it was derived with, so a cached key can re-encrypt the document it was
// derived for.
type Key struct {
	mu          sync.RWMutex
	enclave     *memguard.Enclave
	size        int
	extractable bool
	keyType     KeyType
	salt        []byte
	params      models.EncryptionParameters
}

// NewKey seals raw into a new key handle. raw is wiped before NewKey
// returns, whatever the outcome.
func NewKey(raw []byte, keyType KeyType, salt []byte, params models.EncryptionParameters, extractable bool) (*Key, error) {
	if len(raw) != params.KeyBytes() {
		size := len(raw)
		memguard.WipeBytes(raw)
		return nil, fmt.Errorf("key must be %d bytes, got %d", params.KeyBytes(), size)
	}

	size := len(raw)
	enclave := memguard.NewEnclave(raw)
	if enclave == nil {
		return nil, fmt.Errorf("seal key: empty key material")
	}

	return &Key{
		enclave:     enclave,
		size:        size,
		extractable: extractable,
		keyType:     keyType,
		salt:        bytes.Clone(salt),
		params:      params,
	}, nil
}

// Export returns a copy of the raw key bytes. It fails with
// [ErrKeyNotExtractable] for keys derived for disk-facing operations.
func (k *Key) Export() ([]byte, error) {
	if !k.extractable {
		return nil, ErrKeyNotExtractable
	}

	var out []byte
	err := k.use(func(raw []byte) error {
		out = bytes.Clone(raw)
		return nil
	})
	return out, err
}

// Sealed returns a non-extractable copy of k with the same origin. Cached
// keys are extractable; every cipher operation on stored data runs on a
// sealed copy, which the caller destroys afterwards.
func (k *Key) Sealed() (*Key, error) {
	var sealed *Key
	err := k.use(func(raw []byte) error {
		var err error
		sealed, err = NewKey(bytes.Clone(raw), k.keyType, k.salt, k.params, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sealed, nil
}

// Extractable reports whether [Key.Export] is permitted.
func (k *Key) Extractable() bool {
	return k.extractable
}

// Type returns the provider tag of the key.
func (k *Key) Type() KeyType {
	return k.keyType
}

// Size returns the key length in bytes.
func (k *Key) Size() int {
	return k.size
}

// Salt returns a copy of the salt the key was derived with.
func (k *Key) Salt() []byte {
	return bytes.Clone(k.salt)
}

// Params returns the parameters the key was derived with.
func (k *Key) Params() models.EncryptionParameters {
	return k.params
}

// Matches reports whether the key was derived with exactly salt and params.
func (k *Key) Matches(salt []byte, params models.EncryptionParameters) bool {
	return k.params == params && subtle.ConstantTimeCompare(k.salt, salt) == 1
}

// Destroy drops the sealed key material. Using the key afterwards fails
// with [ErrKeyDestroyed].
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	k.mu.Lock()
	k.enclave = nil
	k.mu.Unlock()
}

// use opens the enclave, hands the raw bytes to fn and destroys the locked
// buffer when fn returns. fn must not retain raw.
func (k *Key) use(fn func(raw []byte) error) error {
	k.mu.RLock()
	enclave := k.enclave
	k.mu.RUnlock()

	if enclave == nil {
		return ErrKeyDestroyed
	}

	buf, err := enclave.Open()
	if err != nil {
		return fmt.Errorf("open key enclave: %w", err)
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}
