package service

import "testing"

func TestNewEphemeralToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := newEphemeralToken()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		if len(token) != ephemeralTokenBytes*2 {
			t.Fatalf("unexpected token length: %d", len(token))
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = struct{}{}
	}
}

func TestHashResetToken(t *testing.T) {
	a := hashResetToken("some-token")
	b := hashResetToken("some-token")
	if a != b {
		t.Fatalf("hash must be deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex, got length %d", len(a))
	}
	if a == "some-token" {
		t.Fatalf("hash must differ from the raw value")
	}
	if hashResetToken("other-token") == a {
		t.Fatalf("distinct tokens must hash differently")
	}
}
