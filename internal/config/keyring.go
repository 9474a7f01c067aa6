package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrPasswordNotFound is returned when a credential has no password in the file or the keyring.
var ErrPasswordNotFound = errors.New("password not found in config or keyring")

func (c Credential) keyringUser() string {
	return c.School + "/" + c.Username
}

// ResolvePassword returns the configured password, falling back to the OS keyring.
func (c Credential) ResolvePassword() (string, error) {
	if c.Password != "" {
		return c.Password, nil
	}
	pw, err := keyring.Get(AppName, c.keyringUser())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrPasswordNotFound, c.keyringUser())
		}
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return pw, nil
}

// StorePassword saves the credential's password in the OS keyring.
func StorePassword(c Credential, password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(AppName, c.keyringUser(), password); err != nil {
		return fmt.Errorf("failed to store password in keyring: %w", err)
	}
	return nil
}
