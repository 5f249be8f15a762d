package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	keyLength  = 32
)

// Hasher hashes and verifies passwords using argon2id. Callers must not log or
// persist plaintext passwords. Hashing is deliberately memory-hard; callers must
// not hold locks or open transactions across a Hash or Verify call.
type Hasher struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
}

// NewHasher returns a Hasher with the given argon2id parameters. Out-of-range
// values are clamped to safe minimums (8 MiB memory, 1 iteration, 1 lane).
func NewHasher(memoryKB, timeCost uint32, parallelism uint8) *Hasher {
	if memoryKB < 8*1024 {
		memoryKB = 8 * 1024
	}
	if timeCost < 1 {
		timeCost = 1
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Hasher{Memory: memoryKB, Time: timeCost, Parallelism: parallelism}
}

// Hash derives an argon2id hash of password with a fresh random salt and
// returns it in PHC string format ($argon2id$v=...$m=...,t=...,p=...$salt$hash).
// Two calls with the same password produce different encodings.
func (h *Hasher) Hash(password []byte) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey(password, salt, h.Time, h.Memory, h.Parallelism, keyLength)
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.Memory,
		h.Time,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the stored PHC-encoded hash.
// A malformed or foreign-format hash verifies false; Verify never panics
// and never returns an error to the caller.
func (h *Hasher) Verify(encoded string, password []byte) bool {
	memory, timeCost, parallelism, salt, want, ok := parsePHC(encoded)
	if !ok {
		return false
	}
	got := argon2.IDKey(password, salt, timeCost, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}

// parsePHC decodes a $argon2id$ PHC string. The stored parameters are used for
// verification so hashes created under older settings still verify.
func parsePHC(encoded string) (memory, timeCost uint32, parallelism uint8, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, false
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") || version != argon2.Version {
		return 0, 0, 0, nil, nil, false
	}
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			return 0, 0, 0, nil, nil, false
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, 0, 0, nil, nil, false
		}
		switch k {
		case "m":
			memory = uint32(n)
		case "t":
			timeCost = uint32(n)
		case "p":
			if n == 0 || n > 255 {
				return 0, 0, 0, nil, nil, false
			}
			parallelism = uint8(n)
		default:
			return 0, 0, 0, nil, nil, false
		}
	}
	if memory == 0 || timeCost == 0 || parallelism == 0 {
		return 0, 0, 0, nil, nil, false
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return 0, 0, 0, nil, nil, false
	}
	return memory, timeCost, parallelism, salt, key, true
}
