package keys

import (
	"strings"
	"testing"
)

const testMasterKey = "aa11bb22cc33dd44ee55ff6677889900aa11bb22cc33dd44ee55ff6677889900"

func TestSealAndOpen(t *testing.T) {
	s, err := NewSealer(testMasterKey)
	if err != nil {
		t.Fatalf("NewSealer() failed: %v", err)
	}

	sealed, err := s.Seal("sk_test_abc123")
	if err != nil {
		t.Fatalf("Seal() failed: %v", err)
	}

	if !IsSealed(sealed) {
		t.Errorf("sealed value missing envelope wrapper: %s", sealed)
	}

	if strings.Contains(sealed, "sk_test_abc123") {
		t.Error("sealed value contains the plaintext")
	}

	plain, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if plain != "sk_test_abc123" {
		t.Errorf("Expected round-trip plaintext, got %s", plain)
	}
}

func TestOpenPassesThroughUnsealedValues(t *testing.T) {
	s, _ := NewSealer(testMasterKey)

	plain, err := s.Open("sk_test_legacy_plaintext")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if plain != "sk_test_legacy_plaintext" {
		t.Errorf("unsealed value should pass through, got %s", plain)
	}
}

func TestOpenWrongKey(t *testing.T) {
	s1, _ := NewSealer(testMasterKey)
	s2, _ := NewSealer("bb11bb22cc33dd44ee55ff6677889900aa11bb22cc33dd44ee55ff6677889900")

	sealed, _ := s1.Seal("secret")
	if _, err := s2.Open(sealed); err == nil {
		t.Error("Open() should fail with the wrong master key")
	}
}

func TestNewSealerRejectsBadKeys(t *testing.T) {
	if _, err := NewSealer("not-hex"); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := NewSealer("abcd"); err == nil {
		t.Error("expected error for short key")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("sk_test_abcdef1234", 4); got != "**************1234" {
		t.Errorf("Mask() = %s", got)
	}
	if got := Mask("abc", 4); got != "***" {
		t.Errorf("short values should be fully masked, got %s", got)
	}
	if got := Mask("", 4); got != "" {
		t.Errorf("empty input should stay empty, got %s", got)
	}
}
