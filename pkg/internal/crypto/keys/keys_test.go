package keys

import (
	"bytes"
	"errors"
	"testing"

	"github.com/strixun/modvault/pkg/internal/errs"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	k1 := DeriveKey("token-a")
	k2 := DeriveKey("token-a")

	if len(k1) != KeyLen {
		t.Fatalf("expected %d byte key, got %d", KeyLen, len(k1))
	}

	if !bytes.Equal(k1, k2) {
		t.Fatal("same token should derive the same key")
	}

	if bytes.Equal(k1, DeriveKey("token-b")) {
		t.Fatal("different tokens should derive different keys")
	}
}

func TestDeriveKeyWithSalt(t *testing.T) {
	s1, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}

	s2, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}

	if bytes.Equal(s1, s2) {
		t.Fatal("two salts should not collide")
	}

	k1 := DeriveKeyWithSalt("token-a", s1)
	if !bytes.Equal(k1, DeriveKeyWithSalt("token-a", s1)) {
		t.Fatal("same token and salt should derive the same key")
	}

	if bytes.Equal(k1, DeriveKeyWithSalt("token-a", s2)) {
		t.Fatal("different salts should derive different keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := DeriveKey("token-a")
	plaintext := []byte("mod artifact payload bytes")

	nonce, sealed, err := Encrypt(plaintext, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if bytes.Contains(sealed, plaintext) {
		t.Fatal("ciphertext should not contain the plaintext")
	}

	got, err := Decrypt(sealed, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	nonce, sealed, err := Encrypt([]byte("secret payload"), DeriveKey("token-a"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	if _, err := Decrypt(sealed, nonce, DeriveKey("token-b")); !errors.Is(err, errs.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestDecryptBadInputs(t *testing.T) {
	key := DeriveKey("token-a")

	nonce, sealed, err := Encrypt([]byte("payload"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// 坏 nonce 长度
	if _, err := Decrypt(sealed, nonce[:NonceLen-1], key); !errors.Is(err, errs.ErrDecryption) {
		t.Fatalf("expected ErrDecryption for short nonce, got %v", err)
	}

	// 篡改密文
	tampered := append([]byte(nil), sealed...)
	tampered[0] ^= 0xff

	if _, err := Decrypt(tampered, nonce, key); !errors.Is(err, errs.ErrDecryption) {
		t.Fatalf("expected ErrDecryption for tampered ciphertext, got %v", err)
	}

	// 坏密钥长度
	if _, err := Decrypt(sealed, nonce, key[:16]); !errors.Is(err, errs.ErrDecryption) {
		t.Fatalf("expected ErrDecryption for short key, got %v", err)
	}
}
