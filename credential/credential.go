// SPDX-License-Identifier: GPL-3.0-or-later
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CrawX/go-emailguard/domain"

	"github.com/99designs/keyring"
	"github.com/subosito/gotenv"
)

const (
	EnvKey      = "EMAILGUARD_API_KEY"
	serviceName = "emailguard"
)

// Opener opens the keyring, replaced in tests.
type Opener func() (keyring.Keyring, error)

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/emailguard/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("emailguard-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open keyring: %w", err)
	}
	return ring, nil
}

type Source struct {
	EnvFile string
	Open    Opener
	Getenv  func(string) string
}

func NewSource(envFile string) *Source {
	return &Source{
		EnvFile: envFile,
		Open:    openKeyring,
		Getenv:  os.Getenv,
	}
}

// Lookup returns the API token from the environment, the .env file or the
// keyring, in that order.
func (s *Source) Lookup() (string, error) {
	if token := strings.TrimSpace(s.Getenv(EnvKey)); len(token) > 0 {
		return token, nil
	}

	if len(s.EnvFile) > 0 {
		env, err := gotenv.Read(s.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("could not read %s: %w", s.EnvFile, err)
		}
		if token := strings.TrimSpace(env[EnvKey]); len(token) > 0 {
			return token, nil
		}
	}

	if s.Open != nil {
		ring, err := s.Open()
		if err == nil {
			item, err := ring.Get(EnvKey)
			if err == nil && len(item.Data) > 0 {
				return string(item.Data), nil
			}
		}
	}

	return "", domain.ErrMissingAPIKey
}

// Store saves the token in the keyring.
func (s *Source) Store(token string) error {
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return domain.ErrMissingAPIKey
	}

	ring, err := s.Open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   EnvKey,
		Label: "EmailGuard API key",
		Data:  []byte(token),
	})
	if err != nil {
		return fmt.Errorf("could not store credential: %w", err)
	}

	return nil
}
