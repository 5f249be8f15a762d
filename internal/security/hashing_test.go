package security

import (
	"strings"
	"testing"
)

// Low-cost parameters keep hashing tests fast; NewHasher clamps below these.
func testHasher() *Hasher {
	return NewHasher(8*1024, 1, 1)
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := testHasher()
	password := []byte("s3cret!")
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty")
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash %q is not in argon2id PHC format", hash)
	}
	if !h.Verify(hash, password) {
		t.Fatal("Verify should accept the original password")
	}
}

func TestHasher_VerifyWrongPassword(t *testing.T) {
	h := testHasher()
	hash, _ := h.Hash([]byte("s3cret!"))
	if h.Verify(hash, []byte("wrong")) {
		t.Fatal("Verify should reject a wrong password")
	}
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := testHasher()
	a, err := h.Hash([]byte("same-password"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := h.Hash([]byte("same-password"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password should differ (random salt)")
	}
	if !h.Verify(a, []byte("same-password")) || !h.Verify(b, []byte("same-password")) {
		t.Fatal("both encodings should verify")
	}
}

func TestHasher_MalformedHashVerifiesFalse(t *testing.T) {
	h := testHasher()
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$!!!",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA", // missing p
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA", // wrong version
		"$bcrypt$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$2a$10$abcdefghijklmnopqrstuv", // foreign format
	}
	for _, m := range malformed {
		if h.Verify(m, []byte("anything")) {
			t.Errorf("Verify(%q) should be false", m)
		}
	}
}

func TestHasher_VerifyUsesStoredParams(t *testing.T) {
	// A hash created under different settings still verifies.
	old := NewHasher(8*1024, 2, 1)
	hash, err := old.Hash([]byte("s3cret!"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	current := NewHasher(16*1024, 1, 2)
	if !current.Verify(hash, []byte("s3cret!")) {
		t.Fatal("Verify should honor the parameters embedded in the hash")
	}
}

func TestNewHasher_ClampsParams(t *testing.T) {
	h := NewHasher(0, 0, 0)
	if h.Memory < 8*1024 {
		t.Errorf("Memory = %d, want at least 8192", h.Memory)
	}
	if h.Time < 1 {
		t.Errorf("Time = %d, want at least 1", h.Time)
	}
	if h.Parallelism < 1 {
		t.Errorf("Parallelism = %d, want at least 1", h.Parallelism)
	}
}
