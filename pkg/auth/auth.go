// Package auth resolves the active credential for a host. Resolution
// layers, highest priority first: environment override (GH_TOKEN, then
// GITHUB_TOKEN), system keyring, hosts.yml. Gist hosts that carry no
// credential of their own fall back to their parent host.
package auth

import (
	"fmt"

	"github.com/hubctl/hubctl/pkg/config"
	"github.com/hubctl/hubctl/pkg/ghinstance"
)

// TokenUser is the placeholder login reported for tokens that arrive
// through the environment, where the real account name is unknown.
const TokenUser = "x-access-token"

// HostEnvVar overrides the default host for commands that take none.
const HostEnvVar = "GH_HOST"

// NoTokenError reports that no credential could be resolved for a host
// from any source. User is set when a specific account was requested.
type NoTokenError struct {
	Host string
	User string
}

func (e *NoTokenError) Error() string {
	if e.User != "" {
		return fmt.Sprintf("no oauth token found for %s on %s", e.User, e.Host)
	}
	return fmt.Sprintf("no oauth token found for %s", e.Host)
}

// Store resolves credentials across the environment, the system
// keyring, and the configuration store.
type Store struct {
	cfg     *config.Store
	env     Env
	keyring Keyring
}

// NewStore builds a resolver over an already loaded configuration
// store. Pass NoopKeyring to disable keyring lookups.
func NewStore(cfg *config.Store, env Env, kr Keyring) *Store {
	return &Store{cfg: cfg, env: env, keyring: kr}
}

// NewDefault loads the default configuration and resolves against the
// real environment and system keyring.
func NewDefault() (*Store, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	return NewStore(cfg, OSEnv(), SystemKeyring()), nil
}

// Config exposes the underlying configuration store.
func (s *Store) Config() *config.Store { return s.cfg }

// candidateHosts returns the hosts consulted for a credential, in
// order. A gist host is tried first as itself, then as its parent.
func candidateHosts(hostname string) []string {
	if ghinstance.IsGistHost(hostname) {
		return []string{hostname, ghinstance.StripGistPrefix(hostname)}
	}
	return []string{hostname}
}

// envToken returns a token override from the environment. A variable
// that is set but empty still claims the override slot: it disables
// stored credentials rather than falling through to them.
func (s *Store) envToken() (token, envVar string, set bool) {
	for _, v := range TokenEnvVars {
		if val, ok := s.env.LookupEnv(v); ok {
			return val, v, true
		}
	}
	return "", "", false
}

// ActiveToken resolves the credential used for requests to hostname.
func (s *Store) ActiveToken(hostname string) (string, TokenSource, bool) {
	hostname = ghinstance.NormalizeHostname(hostname)

	if token, envVar, set := s.envToken(); set {
		if token == "" {
			return "", TokenSource{}, false
		}
		return token, TokenSource{Kind: SourceEnv, EnvVar: envVar}, true
	}

	for _, host := range candidateHosts(hostname) {
		if token, err := s.keyring.Get(host); err == nil && token != "" {
			return token, TokenSource{Kind: SourceKeyring}, true
		}
		if token, ok := s.cfg.TokenFor(host); ok {
			return token, TokenSource{Kind: SourceConfig}, true
		}
	}
	return "", TokenSource{}, false
}

// ActiveUser returns the login associated with the active credential.
// Environment tokens carry no account name; TokenUser stands in.
func (s *Store) ActiveUser(hostname string) (string, bool) {
	hostname = ghinstance.NormalizeHostname(hostname)

	if token, _, set := s.envToken(); set {
		if token == "" {
			return "", false
		}
		return TokenUser, true
	}

	for _, host := range candidateHosts(hostname) {
		if user, ok := s.cfg.ActiveUserFor(host); ok {
			return user, true
		}
		// A keyring credential without a recorded user still counts
		// as a login; report the placeholder.
		if token, err := s.keyring.Get(host); err == nil && token != "" {
			return TokenUser, true
		}
	}
	return "", false
}

// TokenForUser resolves the stored credential of a specific account.
func (s *Store) TokenForUser(hostname, user string) (string, bool) {
	hostname = ghinstance.NormalizeHostname(hostname)
	for _, host := range candidateHosts(hostname) {
		if token, ok := s.cfg.TokenForUser(host, user); ok {
			return token, true
		}
	}
	return "", false
}

// Users lists accounts with a stored credential for hostname.
func (s *Store) Users(hostname string) []string {
	return s.cfg.UsersFor(ghinstance.NormalizeHostname(hostname))
}

// Hosts lists every host with a stored credential. A GH_HOST override
// is included even without one, so commands can target it.
func (s *Store) Hosts() []string {
	hosts := s.cfg.Hosts()
	if override, ok := s.env.LookupEnv(HostEnvVar); ok && override != "" {
		override = ghinstance.NormalizeHostname(override)
		for _, h := range hosts {
			if h == override {
				return hosts
			}
		}
		hosts = append([]string{override}, hosts...)
	}
	return hosts
}

// DefaultHost picks the host commands operate on when none is given:
// the GH_HOST override, else the sole authenticated host, else
// github.com.
func (s *Store) DefaultHost() string {
	if override, ok := s.env.LookupEnv(HostEnvVar); ok && override != "" {
		return ghinstance.NormalizeHostname(override)
	}
	if hosts := s.cfg.Hosts(); len(hosts) == 1 {
		return hosts[0]
	}
	return ghinstance.Default
}

// Login stores a credential for hostname and makes user the active
// account. With secure storage the token goes to the system keyring
// and hosts.yml records only the account name.
func (s *Store) Login(hostname, user, token, gitProtocol string, secureStorage bool) error {
	hostname = ghinstance.NormalizeHostname(hostname)

	// The previous active account's token may live in the keyring; put
	// it back in the store so the login below stashes it.
	if prev, ok := s.cfg.ActiveUserFor(hostname); ok && prev != user {
		if _, stored := s.cfg.TokenFor(hostname); !stored {
			if krToken, err := s.keyring.Get(hostname); err == nil && krToken != "" {
				if _, err := s.cfg.Set(hostname, config.KeyOAuthToken, krToken); err != nil {
					return err
				}
			}
		}
	}

	cfgToken := token
	if secureStorage {
		if err := s.keyring.Set(hostname, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		cfgToken = ""
	} else if err := s.keyring.Delete(hostname); err != nil {
		return fmt.Errorf("failed to clear keyring: %w", err)
	}

	if err := s.cfg.Login(hostname, user, cfgToken, gitProtocol); err != nil {
		return err
	}
	return s.cfg.Write()
}

// Logout removes user's credential for hostname.
func (s *Store) Logout(hostname, user string) error {
	hostname = ghinstance.NormalizeHostname(hostname)

	if active, ok := s.cfg.ActiveUserFor(hostname); !ok || active == user {
		if err := s.keyring.Delete(hostname); err != nil {
			return fmt.Errorf("failed to clear keyring: %w", err)
		}
	}
	if err := s.cfg.Logout(hostname, user); err != nil {
		return err
	}
	return s.cfg.Write()
}

// SwitchUser makes a stored account the active one for hostname.
func (s *Store) SwitchUser(hostname, user string) error {
	hostname = ghinstance.NormalizeHostname(hostname)

	// If the active token lives in the keyring, surface it into the
	// store first so the switch can stash it, and remember to keep the
	// new active token in the keyring afterwards.
	keyringMode := false
	if _, stored := s.cfg.TokenFor(hostname); !stored {
		if krToken, err := s.keyring.Get(hostname); err == nil && krToken != "" {
			if _, err := s.cfg.Set(hostname, config.KeyOAuthToken, krToken); err != nil {
				return err
			}
			keyringMode = true
		}
	}

	if err := s.cfg.SwitchUser(hostname, user); err != nil {
		return err
	}

	if keyringMode {
		token, _ := s.cfg.TokenFor(hostname)
		if err := s.keyring.Set(hostname, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		if _, err := s.cfg.Set(hostname, config.KeyOAuthToken, ""); err != nil {
			return err
		}
	}
	return s.cfg.Write()
}
