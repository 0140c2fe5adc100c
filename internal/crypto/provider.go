package crypto

import (
	"fmt"

	"github.com/MKhiriev/go-note-vault/models"
)

// passwordKeyProvider derives keys from user passwords through a
// [KeyDeriver].
type passwordKeyProvider struct {
	deriver KeyDeriver
}

// NewPasswordKeyProvider constructs the password [KeyProvider].
func NewPasswordKeyProvider(deriver KeyDeriver) KeyProvider {
	return &passwordKeyProvider{deriver: deriver}
}

func (p *passwordKeyProvider) Type() KeyType {
	return KeyTypePassword
}

func (p *passwordKeyProvider) DeriveKey(secret, salt []byte, params models.EncryptionParameters, extractable bool) (*Key, error) {
	return p.deriver.DeriveKey(secret, salt, params, extractable)
}

// Providers is a registry of key providers indexed by their type tag.
type Providers map[KeyType]KeyProvider

// NewProviders builds a registry from providers. A later provider replaces
// an earlier one with the same type.
func NewProviders(providers ...KeyProvider) Providers {
	reg := make(Providers, len(providers))
	for _, p := range providers {
		reg[p.Type()] = p
	}
	return reg
}

// Get returns the provider registered for t.
func (p Providers) Get(t KeyType) (KeyProvider, error) {
	provider, ok := p[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyType, t)
	}
	return provider, nil
}
