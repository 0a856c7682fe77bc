package cryptox_test

import (
	"strings"
	"testing"

	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
)

func TestGenerateSecureToken(t *testing.T) {
	tok1, err := cryptox.GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	tok2, err := cryptox.GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}

	if tok1 == tok2 {
		t.Fatal("two generated tokens should not collide")
	}
	if strings.ContainsAny(tok1, "+/=") {
		t.Fatalf("token %q is not URL-safe", tok1)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	h1 := cryptox.HashToken("some-token")
	h2 := cryptox.HashToken("some-token")

	if h1 != h2 {
		t.Fatal("HashToken must be deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars for sha256, got %d", len(h1))
	}
	if h1 == cryptox.HashToken("other-token") {
		t.Fatal("distinct tokens should not hash equal")
	}
}

func TestVerifyTokenHash(t *testing.T) {
	tok, err := cryptox.GenerateSecureToken(16)
	if err != nil {
		t.Fatalf("GenerateSecureToken failed: %v", err)
	}
	hash := cryptox.HashToken(tok)

	if !cryptox.VerifyTokenHash(tok, hash) {
		t.Fatal("VerifyTokenHash rejected the matching token")
	}
	if cryptox.VerifyTokenHash(tok+"x", hash) {
		t.Fatal("VerifyTokenHash accepted a non-matching token")
	}
}

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hash, err := cryptox.GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey failed: %v", err)
	}

	if plaintext == "" || hash == "" {
		t.Fatal("expected both plaintext and hash")
	}
	if cryptox.HashToken(plaintext) != hash {
		t.Fatal("returned hash does not match the plaintext key")
	}
}
