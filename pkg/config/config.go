// Package config implements the layered configuration store backing
// hubctl: a global document, per-host entries with stored credentials,
// and a registry of known options with defaults and allowed values.
//
// Resolution order for a key is host-scoped override, then the global
// value, then the registry default. All access goes through scoped
// acquisition of a store-wide lock; a mutation that aborts mid-flight
// poisons the store and every later operation fails with
// ErrLockPoisoned instead of observing inconsistent state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/hubctl/hubctl/pkg/ghinstance"
)

// Credential-shaped keys stored on host entries rather than in the
// option registry.
const (
	KeyOAuthToken  = "oauth_token"
	KeyUser        = "user"
	KeyGitProtocol = "git_protocol"
)

// UserEntry holds the stashed credential of a non-active account.
type UserEntry struct {
	OAuthToken string `yaml:"oauth_token,omitempty"`
}

// HostEntry is the persisted per-host record: the active user's
// credential plus stashed credentials for other accounts.
type HostEntry struct {
	User        string               `yaml:"user,omitempty"`
	OAuthToken  string               `yaml:"oauth_token,omitempty"`
	GitProtocol string               `yaml:"git_protocol,omitempty"`
	Users       map[string]UserEntry `yaml:"users,omitempty"`
	Extras      map[string]string    `yaml:",inline"`
}

type globalDocument struct {
	Settings map[string]string `yaml:",inline"`
	Aliases  map[string]string `yaml:"aliases,omitempty"`
}

// Store is the process-wide configuration store. The zero value is not
// usable; construct via Load, LoadDefault, or NewBlank.
type Store struct {
	mu       sync.RWMutex
	poisoned bool

	dir string // empty for an in-memory store

	global  map[string]string
	aliases map[string]string
	hosts   map[string]*HostEntry
}

// NewBlank returns an empty in-memory store. Write is a no-op.
func NewBlank() *Store {
	return &Store{
		global:  map[string]string{},
		aliases: map[string]string{},
		hosts:   map[string]*HostEntry{},
	}
}

// LoadDefault loads the store from the default configuration directory.
func LoadDefault() (*Store, error) {
	return Load(Dir())
}

// Load reads config.yml and hosts.yml from dir. Missing files yield an
// empty store bound to dir.
func Load(dir string) (*Store, error) {
	s := NewBlank()
	s.dir = dir

	var global globalDocument
	if err := readYAML(filepath.Join(dir, configFileName), &global); err != nil {
		return nil, err
	}
	if global.Settings != nil {
		s.global = global.Settings
	}
	if global.Aliases != nil {
		s.aliases = global.Aliases
	}

	hosts := map[string]*HostEntry{}
	if err := readYAML(filepath.Join(dir, hostsFileName), &hosts); err != nil {
		return nil, err
	}
	s.hosts = hosts
	return s, nil
}

func readYAML(path string, out interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// withRead runs fn under shared acquisition of the store lock.
func (s *Store) withRead(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.poisoned {
		return ErrLockPoisoned
	}
	return fn()
}

// withWrite runs fn under exclusive acquisition. A panic inside fn
// poisons the store: the panic is converted into ErrLockPoisoned and
// every subsequent acquisition fails the same way.
func (s *Store) withWrite(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poisoned {
		return ErrLockPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			err = fmt.Errorf("%w (caused by: %v)", ErrLockPoisoned, r)
		}
	}()
	return fn()
}

// Get resolves key for hostname: host-scoped override first, then the
// global value. Registry defaults are applied by GetOrDefault.
func (s *Store) Get(hostname, key string) (string, bool) {
	var val string
	var ok bool
	_ = s.withRead(func() error {
		val, ok = s.getLocked(hostname, key)
		return nil
	})
	return val, ok
}

func (s *Store) getLocked(hostname, key string) (string, bool) {
	if hostname != "" {
		if entry, found := s.hosts[ghinstance.NormalizeHostname(hostname)]; found {
			if v, ok := entry.value(key); ok {
				return v, true
			}
		}
	}
	v, ok := s.global[key]
	return v, ok
}

func (e *HostEntry) value(key string) (string, bool) {
	switch key {
	case KeyOAuthToken:
		if e.OAuthToken != "" {
			return e.OAuthToken, true
		}
	case KeyUser:
		if e.User != "" {
			return e.User, true
		}
	case KeyGitProtocol:
		if e.GitProtocol != "" {
			return e.GitProtocol, true
		}
	default:
		v, ok := e.Extras[key]
		return v, ok
	}
	return "", false
}

// GetOrDefault resolves key like Get, falling back to the registry
// default. Unknown keys without a value yield "".
func (s *Store) GetOrDefault(hostname, key string) string {
	if v, ok := s.Get(hostname, key); ok {
		return v
	}
	return DefaultFor(key)
}

// Set stores value for key. Values outside a restricted allowed set
// are rejected with an InvalidValueError and prior state is unchanged.
// Unknown keys are accepted; the returned warning is non-empty and
// must be surfaced to the caller.
func (s *Store) Set(hostname, key, value string) (warning string, err error) {
	opt, known := OptionFor(key)
	if known {
		if verr := opt.ValidateValue(value); verr != nil {
			return "", verr
		}
	} else if key != KeyOAuthToken && key != KeyUser {
		warning = fmt.Sprintf("'%s' is not a known configuration key", key)
	}

	err = s.withWrite(func() error {
		if hostname == "" {
			s.global[key] = value
			return nil
		}
		entry := s.hostEntryLocked(ghinstance.NormalizeHostname(hostname))
		entry.setValue(key, value)
		return nil
	})
	if err != nil {
		return "", err
	}
	return warning, nil
}

func (s *Store) hostEntryLocked(hostname string) *HostEntry {
	entry, ok := s.hosts[hostname]
	if !ok {
		entry = &HostEntry{}
		s.hosts[hostname] = entry
	}
	return entry
}

func (e *HostEntry) setValue(key, value string) {
	switch key {
	case KeyOAuthToken:
		e.OAuthToken = value
	case KeyUser:
		e.User = value
	case KeyGitProtocol:
		e.GitProtocol = value
	default:
		if e.Extras == nil {
			e.Extras = map[string]string{}
		}
		e.Extras[key] = value
	}
}

// Aliases returns a copy of the alias map.
func (s *Store) Aliases() map[string]string {
	out := map[string]string{}
	_ = s.withRead(func() error {
		for k, v := range s.aliases {
			out[k] = v
		}
		return nil
	})
	return out
}

// SetAlias stores an alias, silently overwriting any previous
// expansion for the same name.
func (s *Store) SetAlias(name, expansion string) error {
	return s.withWrite(func() error {
		s.aliases[name] = expansion
		return nil
	})
}

// DeleteAlias removes an alias, returning the old expansion.
func (s *Store) DeleteAlias(name string) (string, bool) {
	var old string
	var found bool
	_ = s.withWrite(func() error {
		old, found = s.aliases[name]
		delete(s.aliases, name)
		return nil
	})
	return old, found
}

// HasAlias reports whether name is a defined alias.
func (s *Store) HasAlias(name string) bool {
	_, ok := s.Aliases()[name]
	return ok
}

// Hosts lists hostnames holding at least one persisted credential.
func (s *Store) Hosts() []string {
	var out []string
	_ = s.withRead(func() error {
		for host, entry := range s.hosts {
			if entry.OAuthToken != "" || len(entry.Users) > 0 {
				out = append(out, host)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// TokenFor returns the active user's stored token for hostname.
func (s *Store) TokenFor(hostname string) (string, bool) {
	var token string
	_ = s.withRead(func() error {
		if entry, ok := s.hosts[hostname]; ok {
			token = entry.OAuthToken
		}
		return nil
	})
	return token, token != ""
}

// ActiveUserFor returns the active user login stored for hostname.
func (s *Store) ActiveUserFor(hostname string) (string, bool) {
	var user string
	_ = s.withRead(func() error {
		if entry, ok := s.hosts[hostname]; ok {
			user = entry.User
		}
		return nil
	})
	return user, user != ""
}

// UsersFor lists every account with a stored credential for hostname,
// the active user included.
func (s *Store) UsersFor(hostname string) []string {
	var out []string
	_ = s.withRead(func() error {
		entry, ok := s.hosts[hostname]
		if !ok {
			return nil
		}
		for user := range entry.Users {
			out = append(out, user)
		}
		if entry.User != "" {
			found := false
			for _, u := range out {
				if u == entry.User {
					found = true
					break
				}
			}
			if !found {
				out = append(out, entry.User)
			}
		}
		return nil
	})
	sort.Strings(out)
	return out
}

// TokenForUser returns the stored token for a specific account.
func (s *Store) TokenForUser(hostname, user string) (string, bool) {
	var token string
	_ = s.withRead(func() error {
		entry, ok := s.hosts[hostname]
		if !ok {
			return nil
		}
		if entry.User == user {
			token = entry.OAuthToken
			return nil
		}
		if stashed, ok := entry.Users[user]; ok {
			token = stashed.OAuthToken
		}
		return nil
	})
	return token, token != ""
}

// Login records user's token as the active credential for hostname.
// Any previous active user's token is stashed so it can be switched
// back to later.
func (s *Store) Login(hostname, user, token, gitProtocol string) error {
	return s.withWrite(func() error {
		entry := s.hostEntryLocked(hostname)
		if entry.User != "" && entry.User != user && entry.OAuthToken != "" {
			if entry.Users == nil {
				entry.Users = map[string]UserEntry{}
			}
			entry.Users[entry.User] = UserEntry{OAuthToken: entry.OAuthToken}
		}
		delete(entry.Users, user)
		entry.User = user
		entry.OAuthToken = token
		if gitProtocol != "" {
			entry.GitProtocol = gitProtocol
		}
		return nil
	})
}

// Logout removes user's credential for hostname. Removing the active
// user promotes a remaining stashed account; removing the last account
// drops the host entry.
func (s *Store) Logout(hostname, user string) error {
	return s.withWrite(func() error {
		entry, ok := s.hosts[hostname]
		if !ok {
			return nil
		}
		delete(entry.Users, user)
		if entry.User == user {
			entry.User = ""
			entry.OAuthToken = ""
			var stashed []string
			for u := range entry.Users {
				stashed = append(stashed, u)
			}
			if len(stashed) > 0 {
				sort.Strings(stashed)
				next := stashed[0]
				entry.User = next
				entry.OAuthToken = entry.Users[next].OAuthToken
				delete(entry.Users, next)
			}
		}
		if entry.User == "" && entry.OAuthToken == "" && len(entry.Users) == 0 {
			delete(s.hosts, hostname)
		}
		return nil
	})
}

// SwitchUser makes a stored account the active one for hostname. It
// fails when the account has no stored credential for that host.
func (s *Store) SwitchUser(hostname, user string) error {
	return s.withWrite(func() error {
		entry, ok := s.hosts[hostname]
		if !ok {
			return fmt.Errorf("not logged in to %s", hostname)
		}
		if entry.User == user {
			return nil
		}
		stashed, ok := entry.Users[user]
		if !ok || stashed.OAuthToken == "" {
			return fmt.Errorf("no stored credential for %s on %s", user, hostname)
		}
		if entry.User != "" && entry.OAuthToken != "" {
			if entry.Users == nil {
				entry.Users = map[string]UserEntry{}
			}
			entry.Users[entry.User] = UserEntry{OAuthToken: entry.OAuthToken}
		}
		delete(entry.Users, user)
		entry.User = user
		entry.OAuthToken = stashed.OAuthToken
		return nil
	})
}

// Write persists both documents with a full atomic rewrite: each file
// is serialized to a temp file and renamed into place, so a crash
// mid-write leaves the prior state intact. In-memory stores are not
// persisted.
func (s *Store) Write() error {
	return s.withWrite(func() error {
		if s.dir == "" {
			return nil
		}
		if err := os.MkdirAll(s.dir, 0o700); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}

		global, err := yaml.Marshal(globalDocument{Settings: s.global, Aliases: s.aliases})
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		if err := writeFileAtomic(filepath.Join(s.dir, configFileName), global); err != nil {
			return err
		}

		hosts, err := yaml.Marshal(s.hosts)
		if err != nil {
			return fmt.Errorf("failed to marshal hosts: %w", err)
		}
		return writeFileAtomic(filepath.Join(s.dir, hostsFileName), hosts)
	})
}

func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
