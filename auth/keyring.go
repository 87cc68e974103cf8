// Package auth stores the simulation API token in the system keyring.
package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service = "simplay"
	user    = "api-token"
)

// SetToken persists the API token.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken retrieves the API token.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// Token returns the stored token, or an empty string when none is stored
// or the keyring is unavailable.
func Token() string {
	token, err := GetToken()
	if err != nil {
		return ""
	}
	return token
}

// DeleteToken removes the API token. Deleting a missing token is not an error.
func DeleteToken() error {
	if err := keyring.Delete(service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
