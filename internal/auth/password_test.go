package auth

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if hash == "hunter2" {
		t.Error("hash should not equal the plain password")
	}

	if err := ComparePassword(hash, "hunter2"); err != nil {
		t.Errorf("ComparePassword() failed for correct password: %v", err)
	}

	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("ComparePassword() should fail for wrong password")
	}
}
