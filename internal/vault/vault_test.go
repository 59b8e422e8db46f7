package vault

import (
	"errors"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	v, err := New("correct horse battery staple", "client-portal")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sealed, err := v.Encrypt("hunter2")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if sealed == "hunter2" {
		t.Fatal("ciphertext equals plaintext")
	}

	again, _ := v.Encrypt("hunter2")
	if again == sealed {
		t.Error("expected a fresh nonce per encryption")
	}

	plain, err := v.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "hunter2" {
		t.Errorf("expected hunter2, got %q", plain)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	a, _ := New("passphrase-a", "salt")
	b, _ := New("passphrase-b", "salt")

	sealed, err := a.Encrypt("secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := b.Decrypt(sealed); !errors.Is(err, ErrDecrypt) {
		t.Errorf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecryptGarbage(t *testing.T) {
	v, _ := New("passphrase", "salt")
	for _, in := range []string{"", "not base64!", "c2hvcnQ="} {
		if _, err := v.Decrypt(in); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Decrypt(%q): expected ErrDecrypt, got %v", in, err)
		}
	}
}

func TestNewRequiresPassphrase(t *testing.T) {
	if _, err := New("", "salt"); !errors.Is(err, ErrNoPassphrase) {
		t.Errorf("expected ErrNoPassphrase, got %v", err)
	}
}
