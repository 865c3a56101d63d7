package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/storyreel/storyreel-api/internal/constants"
)

const (
	algorithmID = "argon2id"

	memoryKB    uint32 = 64 * 1024
	timeCost    uint32 = 3
	parallelism uint8  = 2
	saltLength  uint32 = 16
	keyLength   uint32 = 32
)

// Validate checks a password against the policy and returns every
// violation. It never fails for other reasons; an empty slice means the
// password is acceptable.
func Validate(password string) []string {
	var violations []string

	if len(password) < constants.MinPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}
	if len(password) > constants.MaxPasswordLength {
		violations = append(violations, fmt.Sprintf("password must be at most %d characters", constants.MaxPasswordLength))
	}
	if isCommonPassword(password) {
		violations = append(violations, "password is too common")
	}

	return violations
}

// Hash derives an argon2id hash of the password with a fresh random salt.
// The result is a PHC string embedding the algorithm tag and parameters,
// so parameter upgrades keep old hashes verifiable.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, timeCost, memoryKB, parallelism, keyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		memoryKB,
		timeCost,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether the password matches the encoded hash. A
// malformed hash verifies as false; callers never need to distinguish the
// two outcomes.
func Verify(encodedHash, password string) bool {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), parsed.salt, parsed.time, parsed.memory, parsed.parallelism, uint32(len(parsed.key)))

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1
}

// dummyHash is a hash of an unguessable throwaway value, verified against
// login attempts for unknown emails so their latency matches a real
// password check.
var dummyHash = mustDummyHash()

func mustDummyHash() string {
	h, err := Hash("storyreel-dummy-verification-password")
	if err != nil {
		panic(err)
	}
	return h
}

// DummyVerify burns a full argon2 computation. The result is discarded.
func DummyVerify(password string) {
	Verify(dummyHash, password)
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid hash format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	if !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("missing version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || version != argon2.Version {
		return nil, errors.New("unsupported version")
	}

	var p parsedPHC
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.parallelism); err != nil {
		return nil, errors.New("invalid parameters")
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, errors.New("invalid parameters")
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, errors.New("invalid key encoding")
	}
	if len(p.salt) == 0 || len(p.key) == 0 {
		return nil, errors.New("invalid hash length")
	}

	return &p, nil
}
