package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestProviders_Get(t *testing.T) {
	reg := NewProviders(NewPasswordKeyProvider(NewKeyDeriver()))

	p, err := reg.Get(KeyTypePassword)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if p.Type() != KeyTypePassword {
		t.Fatalf("provider type = %q", p.Type())
	}

	if _, err := reg.Get("hardware-token"); !errors.Is(err, ErrUnknownKeyType) {
		t.Fatalf("Get unknown = %v, want ErrUnknownKeyType", err)
	}
}

func TestPasswordKeyProvider_DelegatesToDeriver(t *testing.T) {
	p := NewPasswordKeyProvider(NewKeyDeriver())
	salt := bytes.Repeat([]byte{0x03}, 16)

	viaProvider, err := p.DeriveKey([]byte("pw"), salt, fastParams(), true)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	direct, err := NewKeyDeriver().DeriveKey([]byte("pw"), salt, fastParams(), true)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	a, _ := viaProvider.Export()
	b, _ := direct.Export()
	if !bytes.Equal(a, b) {
		t.Fatalf("provider and deriver disagree")
	}
}
