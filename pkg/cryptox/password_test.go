package cryptox_test

import (
	"testing"

	"github.com/vishesh711/Auth-SDK/pkg/cryptox"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	// Cost 4 keeps the test fast; the verify path is cost-independent.
	h := cryptox.NewPasswordHasher(4, false)

	digest, err := h.Hash("Passw0rd!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "Passw0rd!" {
		t.Fatal("digest must not equal the plaintext")
	}

	if !h.Verify("Passw0rd!", digest) {
		t.Fatal("Verify rejected the correct password")
	}
	if h.Verify("Passw0rd?", digest) {
		t.Fatal("Verify accepted a wrong password")
	}
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	h := cryptox.NewPasswordHasher(4, false)

	d1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	d2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if d1 == d2 {
		t.Fatal("two hashes of the same password should differ (random salt)")
	}
	if !h.Verify("same-password", d1) || !h.Verify("same-password", d2) {
		t.Fatal("both salted digests must verify")
	}
}

func TestValidateStrength_MinLengthOnly(t *testing.T) {
	h := cryptox.NewPasswordHasher(4, false)

	if ok, _ := h.ValidateStrength("short"); ok {
		t.Fatal("7-or-fewer chars must be rejected")
	}
	// No complexity requirements by default: all-lowercase is fine.
	if ok, reason := h.ValidateStrength("alllowercase"); !ok {
		t.Fatalf("length-only policy rejected a valid password: %s", reason)
	}
}

func TestValidateStrength_ComplexityGate(t *testing.T) {
	h := cryptox.NewPasswordHasher(4, true)

	if ok, _ := h.ValidateStrength("alllowercase"); ok {
		t.Fatal("complexity-gated policy accepted a lowercase-only password")
	}
	if ok, reason := h.ValidateStrength("Passw0rd!"); !ok {
		t.Fatalf("complexity-gated policy rejected a complex password: %s", reason)
	}
}

func TestDummyDigest_IsVerifiable(t *testing.T) {
	h := cryptox.NewPasswordHasher(4, false)

	if cryptox.DummyDigest == "" {
		t.Fatal("dummy digest must be initialized")
	}
	// No real password should ever match it.
	if h.Verify("Passw0rd!", cryptox.DummyDigest) {
		t.Fatal("dummy digest matched a real password")
	}
}
