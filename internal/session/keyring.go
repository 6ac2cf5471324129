package session

import (
	"encoding/json"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName   = "calendar-assistant"
	credentialKey = "remembered-login"
)

// Credentials is a remembered login/password pair used for automatic
// sign-in at startup. It is stored only in the system keyring, never
// in the session database.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// openKeyring returns a configured keyring instance.
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
		FileDir:                  "~/.config/calendar-assistant/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("calendar-assistant-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// RememberCredentials stores the login/password pair in the keyring.
func RememberCredentials(creds Credentials) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := ring.Set(keyring.Item{Key: credentialKey, Data: data}); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}
	return nil
}

// RememberedCredentials returns the stored pair, or nil when none is
// saved or the keyring is unavailable.
func RememberedCredentials() *Credentials {
	ring, err := openKeyring()
	if err != nil {
		return nil
	}

	item, err := ring.Get(credentialKey)
	if err != nil {
		return nil
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return nil
	}
	return &creds
}

// ForgetCredentials removes the stored pair. A missing entry is not an
// error.
func ForgetCredentials() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(credentialKey); err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}
