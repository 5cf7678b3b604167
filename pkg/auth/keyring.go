package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	keyringServicePrefix = "hubctl:"
	keyringUser          = "oauth_token"
)

// Keyring stores one secret per host. Implementations must return
// ErrKeyringMiss when no secret is stored; any other error indicates
// the backend itself failed.
type Keyring interface {
	Get(host string) (string, error)
	Set(host, secret string) error
	Delete(host string) error
}

// ErrKeyringMiss reports that the keyring holds no secret for the host.
var ErrKeyringMiss = errors.New("no secret stored in keyring")

// SystemKeyring uses the operating system's credential service
// (Secret Service on Linux, Keychain on macOS, Credential Manager on
// Windows). Secrets are stored under the service name "hubctl:<host>".
func SystemKeyring() Keyring { return systemKeyring{} }

type systemKeyring struct{}

func (systemKeyring) Get(host string) (string, error) {
	secret, err := keyring.Get(keyringServicePrefix+host, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyringMiss
	}
	return secret, err
}

func (systemKeyring) Set(host, secret string) error {
	return keyring.Set(keyringServicePrefix+host, keyringUser, secret)
}

func (systemKeyring) Delete(host string) error {
	err := keyring.Delete(keyringServicePrefix+host, keyringUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// NoopKeyring never stores anything. It backs stores configured to
// keep tokens in plain text only.
func NoopKeyring() Keyring { return noopKeyring{} }

type noopKeyring struct{}

func (noopKeyring) Get(string) (string, error) { return "", ErrKeyringMiss }
func (noopKeyring) Set(string, string) error   { return nil }
func (noopKeyring) Delete(string) error        { return nil }

// MemoryKeyring keeps secrets in a map, for tests.
type MemoryKeyring map[string]string

func (m MemoryKeyring) Get(host string) (string, error) {
	secret, ok := m[host]
	if !ok {
		return "", ErrKeyringMiss
	}
	return secret, nil
}

func (m MemoryKeyring) Set(host, secret string) error {
	m[host] = secret
	return nil
}

func (m MemoryKeyring) Delete(host string) error {
	delete(m, host)
	return nil
}
