package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/strixun/modvault/pkg/internal/errs"
)

var secret = []byte("unit-test-secret")

func TestSignDeterministic(t *testing.T) {
	payload := []byte("artifact bytes")

	d1 := Sign(payload, secret)
	d2 := Sign(payload, secret)

	if d1 != d2 {
		t.Fatal("same input should produce the same digest")
	}

	if len(d1) != sha256.Size*2 {
		t.Fatalf("expected %d hex chars, got %d", sha256.Size*2, len(d1))
	}

	if d1 == Sign(payload, []byte("other-secret")) {
		t.Fatal("different secrets should produce different digests")
	}

	if d1 == Sign([]byte("other bytes"), secret) {
		t.Fatal("different payloads should produce different digests")
	}
}

func TestVerify(t *testing.T) {
	payload := []byte("artifact bytes")
	digest := Sign(payload, secret)

	if !Verify(payload, secret, digest) {
		t.Fatal("digest should verify against its own payload")
	}

	// 大小写不敏感
	if !Verify(payload, secret, strings.ToUpper(digest)) {
		t.Fatal("verification should be case-insensitive")
	}

	if Verify([]byte("tampered bytes"), secret, digest) {
		t.Fatal("tampered payload should not verify")
	}

	if Verify(payload, []byte("other-secret"), digest) {
		t.Fatal("wrong secret should not verify")
	}

	if Verify(payload, secret, "not-hex") {
		t.Fatal("non-hex digest should not verify")
	}
}

func TestLegacyUnkeyedDigest(t *testing.T) {
	payload := []byte("legacy payload")
	sum := sha256.Sum256(payload)

	if got := LegacyUnkeyedDigest(payload); got != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected legacy digest %s", got)
	}
}

func TestFormatAndParseDigest(t *testing.T) {
	digestHex := Sign([]byte("payload"), secret)
	s := FormatDigest("strixun", digestHex)

	d, err := ParseDigest(s)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}

	if d.Namespace != "strixun" || d.Algorithm != AlgorithmHMAC || d.Hex != digestHex {
		t.Fatalf("unexpected parse result %+v", d)
	}

	if d.String() != s {
		t.Fatalf("String round trip mismatch: %s != %s", d.String(), s)
	}
}

func TestParseDigestLegacyAlgorithm(t *testing.T) {
	legacy := LegacyUnkeyedDigest([]byte("payload"))

	d, err := ParseDigest("strixun:sha256:" + legacy)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}

	if d.Algorithm != AlgorithmLegacy {
		t.Fatalf("expected legacy algorithm, got %s", d.Algorithm)
	}
}

func TestParseDigestRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"no-colons-at-all",
		"strixun:hmac-sha256:",
		":hmac-sha256:abcd",
		"strixun:md5:abcd",
		"strixun:hmac-sha256:zzzz",
	}

	for _, c := range cases {
		if _, err := ParseDigest(c); !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("ParseDigest(%q): expected ErrValidation, got %v", c, err)
		}
	}
}
