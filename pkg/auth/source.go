package auth

import "fmt"

// SourceKind says where a resolved token came from.
type SourceKind int

const (
	// SourceConfig is a token stored in hosts.yml.
	SourceConfig SourceKind = iota
	// SourceKeyring is a token stored in the system keyring.
	SourceKeyring
	// SourceEnv is a token injected through the environment.
	SourceEnv
)

// TokenSource records the provenance of a resolved token. Commands use
// it to phrase status output and to refuse writes against sources the
// CLI does not own.
type TokenSource struct {
	Kind   SourceKind
	EnvVar string // set only for SourceEnv
}

// Writeable reports whether credentials from this source can be
// updated or removed by the CLI. Environment overrides cannot: the
// variable belongs to the invoking shell, not to hubctl.
func (s TokenSource) Writeable() bool {
	return s.Kind != SourceEnv
}

func (s TokenSource) String() string {
	switch s.Kind {
	case SourceConfig:
		return "hosts.yml"
	case SourceKeyring:
		return "keyring"
	case SourceEnv:
		return s.EnvVar
	}
	return fmt.Sprintf("unknown source %d", int(s.Kind))
}
