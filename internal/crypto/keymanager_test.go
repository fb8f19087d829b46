package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptSecretRoundTrip(t *testing.T) {
	blob, err := EncryptSecret("NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e33UwrQ6ssUiMm7", "hunter2")
	require.NoError(t, err)

	secret, err := DecryptSecret(blob, "hunter2")
	require.NoError(t, err)
	require.Equal(t, "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e33UwrQ6ssUiMm7", secret)
}

func TestDecryptSecretWrongPassword(t *testing.T) {
	blob, err := EncryptSecret("some-secret", "right")
	require.NoError(t, err)

	_, err = DecryptSecret(blob, "wrong")
	require.Error(t, err)
}

func TestEncryptSecretValidation(t *testing.T) {
	_, err := EncryptSecret("", "pw")
	require.Error(t, err)

	_, err = EncryptSecret("secret", "")
	require.Error(t, err)
}

func TestLoadSecretResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret.enc.json")

	blob, err := EncryptSecret("from-file", "pw")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, blob, 0o600))

	// Raw secret takes precedence over the encrypted file.
	secret, err := LoadSecret(SecretConfig{
		RawSecret:           "from-env",
		EncryptedSecretPath: path,
		Password:            "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "from-env", secret)

	// Encrypted file is used when no raw secret is set.
	secret, err = LoadSecret(SecretConfig{
		EncryptedSecretPath: path,
		Password:            "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "from-file", secret)

	// No source at all is not an error; credentials may be absent.
	secret, err = LoadSecret(SecretConfig{})
	require.NoError(t, err)
	require.Equal(t, "", secret)
}
