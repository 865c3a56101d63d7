package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	require.True(t, Verify(hash, "correct horse battery staple"))
	require.False(t, Verify(hash, "wrong password"))
}

func TestHashUsesFreshSalt(t *testing.T) {
	first, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	second, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, Verify(first, "correct horse battery staple"))
	require.True(t, Verify(second, "correct horse battery staple"))
}

func TestVerifyMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not a hash",
		"$argon2id$v=19$m=65536,t=3,p=2$short",
		"$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$a2V5",
	}

	for _, encoded := range cases {
		require.False(t, Verify(encoded, "anything"), "hash %q should not verify", encoded)
	}
}

func TestValidate(t *testing.T) {
	require.Empty(t, Validate("a perfectly fine passphrase"))

	require.Contains(t, Validate("short"), "password must be at least 8 characters")
	require.Contains(t, Validate(strings.Repeat("x", 200)), "password must be at most 128 characters")
	require.Contains(t, Validate("password123"), "password is too common")
}

func TestValidateCommonPasswordCaseInsensitive(t *testing.T) {
	require.Contains(t, Validate("PASSWORD123"), "password is too common")
}
