// SPDX-License-Identifier: GPL-3.0-or-later
package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource(t *testing.T, env map[string]string, envFile string, ring keyring.Keyring) *Source {
	t.Helper()
	return &Source{
		EnvFile: envFile,
		Open:    func() (keyring.Keyring, error) { return ring, nil },
		Getenv:  func(k string) string { return env[k] },
	}
}

func TestLookup_Order(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("# EmailGuard Configuration\nEMAILGUARD_API_KEY=\"from-file\"\n"), 0o600))

	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: EnvKey, Data: []byte("from-keyring")}})

	tests := []struct {
		name     string
		env      map[string]string
		envFile  string
		expected string
	}{
		{"env", map[string]string{EnvKey: "from-env"}, envFile, "from-env"},
		{"file", nil, envFile, "from-file"},
		{"keyring", nil, filepath.Join(dir, "missing.env"), "from-keyring"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := testSource(t, tc.env, tc.envFile, ring).Lookup()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, token)
		})
	}
}

func TestLookup_Missing(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	_, err := testSource(t, nil, "", ring).Lookup()

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestStore(t *testing.T) {
	ring := keyring.NewArrayKeyring(nil)
	s := testSource(t, nil, "", ring)

	require.NoError(t, s.Store(" secret "))
	token, err := s.Lookup()
	assert.NoError(t, err)
	assert.Equal(t, "secret", token)

	assert.ErrorIs(t, s.Store(""), domain.ErrMissingAPIKey)
}
