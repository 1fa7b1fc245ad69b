package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "Password123" {
		t.Fatalf("hash equals plaintext")
	}

	if !VerifyPassword("Password123", hash) {
		t.Fatalf("correct password did not verify")
	}
	if VerifyPassword("Wrong", hash) {
		t.Fatalf("wrong password verified")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("Password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := HashPassword("Password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same password are identical")
	}
}
