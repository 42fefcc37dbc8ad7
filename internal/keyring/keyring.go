package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/unidash/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry is one secret in the OS keyring.
type Entry struct {
	Service string
	User    string
}

// SyncDSN is where the synced-store connection string lives.
var SyncDSN = Entry{Service: constants.AppName, User: constants.DefaultKeyringUser}

// Get returns the stored secret, or ErrNotFound.
func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

// Set stores secret, replacing any previous value.
func (e Entry) Set(secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("secret cannot be empty")
	}
	if err := keyring.Set(e.Service, e.User, secret); err != nil {
		return fmt.Errorf("failed to store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret. It returns ErrNotFound when nothing was stored.
func (e Entry) Delete() error {
	if err := keyring.Delete(e.Service, e.User); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret from keyring: %w", err)
	}
	return nil
}

// IsAvailable makes a best-effort read to see whether a keyring backend exists.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
