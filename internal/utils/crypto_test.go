package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/argon2"
)

func TestHashPasswordFormat(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "supersecret"},
		{"password with special characters", "p@ssw0rd!#$%"},
		{"unicode password", "pässwörd€"},
		{"long password", strings.Repeat("a", 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)

			salt, err := base64.RawStdEncoding.DecodeString(parts[4])
			require.NoError(t, err)
			assert.Len(t, salt, argonSaltLength)

			key, err := base64.RawStdEncoding.DecodeString(parts[5])
			require.NoError(t, err)
			assert.Len(t, key, argonKeyLength)
		})
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	require.NoError(t, err)
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	require.NoError(t, err)

	recomputed := argon2.IDKey([]byte("supersecret"), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	assert.Equal(t, key, recomputed)

	wrong := argon2.IDKey([]byte("wrongpassword"), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	assert.NotEqual(t, key, wrong)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	first, err := HashPassword("supersecret")
	require.NoError(t, err)
	second, err := HashPassword("supersecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
