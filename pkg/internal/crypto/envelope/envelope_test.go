package envelope

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"github.com/strixun/modvault/pkg/internal/crypto/keys"
	"github.com/strixun/modvault/pkg/internal/errs"
	"github.com/strixun/modvault/pkg/internal/model"
)

const token = "bearer-token-for-tests"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	plaintext := []byte("mod payload, several bytes long")

	data, err := Encode(plaintext, token)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if data[0] != tagBinaryV5 {
		t.Fatalf("canonical envelope should be bin-v5, got tag 0x%02x", data[0])
	}

	if bytes.Contains(data, plaintext) {
		t.Fatal("envelope should not contain the plaintext")
	}

	got, err := Decode(data, token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestDecodeWrongToken(t *testing.T) {
	data, err := Encode([]byte("payload"), token)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := Decode(data, "some-other-token"); !errors.Is(err, errs.ErrDecryption) {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

// 手工构造 v4 信封：0x04 | nonce | 密文，静态盐派生.
func encodeBinaryV4(t *testing.T, plaintext []byte, token string) []byte {
	t.Helper()

	nonce, sealed, err := keys.Encrypt(plaintext, keys.DeriveKey(token))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	out := append([]byte{tagBinaryV4}, nonce...)

	return append(out, sealed...)
}

func TestDecodeBinaryV4(t *testing.T) {
	plaintext := []byte("previous generation payload")
	data := encodeBinaryV4(t, plaintext, token)

	got, err := Decode(data, token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Fatalf("v4 round trip mismatch: got %q", got)
	}
}

func TestDecodeLegacyJSON(t *testing.T) {
	plaintext := []byte("first generation payload")

	nonce, sealed, err := keys.Encrypt(plaintext, keys.DeriveKey(token))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	data := fmt.Appendf(nil, `{"v":1,"iv":%q,"data":%q}`,
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(sealed))

	got, err := Decode(data, token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got, plaintext) {
		t.Fatalf("json round trip mismatch: got %q", got)
	}
}

func TestDecodeRejectsShortEnvelopes(t *testing.T) {
	for _, data := range [][]byte{
		{tagBinaryV5, 1, 2, 3},
		{tagBinaryV4, 1, 2, 3},
		[]byte(`{"v":1,"iv":"???","data":"???"}`),
	} {
		if _, err := Decode(data, token); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("Decode(% x): expected ErrValidation, got %v", data[:4], err)
		}
	}
}

func TestDetect(t *testing.T) {
	v5, err := Encode([]byte("payload"), token)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cases := []struct {
		name  string
		data  []byte
		hints Hints
		want  model.EncryptionFormat
	}{
		{"plaintext metadata wins", v5, Hints{Encrypted: false}, model.EncryptionPlain},
		{"format tag wins over content", []byte("anything"), Hints{Encrypted: true, FormatTag: string(model.EncryptionBinaryV4)}, model.EncryptionBinaryV4},
		{"v5 discriminator", v5, Hints{Encrypted: true}, model.EncryptionBinaryV5},
		{"v4 discriminator", encodeBinaryV4(t, []byte("p"), token), Hints{Encrypted: true}, model.EncryptionBinaryV4},
		{"json discriminator", []byte(`{"v":1}`), Hints{Encrypted: true}, model.EncryptionLegacyJSON},
		{"unknown leading byte", []byte{0x7f, 0x01}, Hints{Encrypted: true}, model.EncryptionPlain},
		{"empty data", nil, Hints{Encrypted: true}, model.EncryptionPlain},
		{"bogus tag falls back to content", v5, Hints{Encrypted: true, FormatTag: "nonsense"}, model.EncryptionBinaryV5},
	}

	for _, c := range cases {
		if got := Detect(c.data, c.hints); got != c.want {
			t.Fatalf("%s: Detect = %s, want %s", c.name, got, c.want)
		}
	}
}
