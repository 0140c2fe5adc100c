package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestKey_NonExtractableByDefault(t *testing.T) {
	k, err := NewKeyDeriver().DeriveKey([]byte("pw"), bytes.Repeat([]byte{0x01}, 16), fastParams(), false)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if k.Extractable() {
		t.Fatalf("expected key to be non-extractable")
	}
	if _, err := k.Export(); !errors.Is(err, ErrKeyNotExtractable) {
		t.Fatalf("Export error = %v, want ErrKeyNotExtractable", err)
	}
}

func TestNewKey_WipesSourceAndRecordsOrigin(t *testing.T) {
	raw := bytes.Repeat([]byte{0x5A}, 32)
	salt := []byte("0123456789abcdef")

	k, err := NewKey(raw, KeyTypePassword, salt, fastParams(), true)
	if err != nil {
		t.Fatalf("NewKey error: %v", err)
	}

	if !bytes.Equal(raw, make([]byte, 32)) {
		t.Fatalf("expected source buffer to be wiped")
	}

	exported, err := k.Export()
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	if !bytes.Equal(exported, bytes.Repeat([]byte{0x5A}, 32)) {
		t.Fatalf("exported key mismatch")
	}
	if k.Type() != KeyTypePassword {
		t.Fatalf("key type = %q, want %q", k.Type(), KeyTypePassword)
	}
	if !k.Matches(salt, fastParams()) {
		t.Fatalf("expected key to match its own salt and params")
	}
	if k.Matches([]byte("fedcba9876543210"), fastParams()) {
		t.Fatalf("expected key not to match a different salt")
	}
}

func TestNewKey_WrongLength(t *testing.T) {
	if _, err := NewKey(make([]byte, 7), KeyTypePassword, []byte("salt"), fastParams(), false); err == nil {
		t.Fatalf("expected error for wrong key length")
	}
}

func TestKey_Destroy(t *testing.T) {
	k, err := NewKey(bytes.Repeat([]byte{0x01}, 32), KeyTypePassword, []byte("salt"), fastParams(), true)
	if err != nil {
		t.Fatalf("NewKey error: %v", err)
	}

	k.Destroy()

	if _, err := k.Export(); !errors.Is(err, ErrKeyDestroyed) {
		t.Fatalf("Export after Destroy = %v, want ErrKeyDestroyed", err)
	}
}

func TestKey_Sealed(t *testing.T) {
	salt := []byte("0123456789abcdef")
	cached, err := NewKey(bytes.Repeat([]byte{0x33}, 32), KeyTypePassword, salt, fastParams(), true)
	if err != nil {
		t.Fatalf("NewKey error: %v", err)
	}

	sealed, err := cached.Sealed()
	if err != nil {
		t.Fatalf("Sealed error: %v", err)
	}
	if sealed.Extractable() {
		t.Fatalf("sealed copy must not be extractable")
	}
	if _, err := sealed.Export(); !errors.Is(err, ErrKeyNotExtractable) {
		t.Fatalf("Export error = %v, want ErrKeyNotExtractable", err)
	}
	if !sealed.Matches(salt, fastParams()) || sealed.Type() != KeyTypePassword {
		t.Fatalf("sealed copy lost the key origin")
	}

	// destroying the copy leaves the cached key usable
	sealed.Destroy()
	if _, err := cached.Export(); err != nil {
		t.Fatalf("Export after destroying copy: %v", err)
	}

	cached.Destroy()
	if _, err := cached.Sealed(); !errors.Is(err, ErrKeyDestroyed) {
		t.Fatalf("Sealed on destroyed key = %v, want ErrKeyDestroyed", err)
	}
}
