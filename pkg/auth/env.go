package auth

import "os"

// TokenEnvVars lists the environment variables consulted for a token
// override, highest priority first.
var TokenEnvVars = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// Env abstracts process environment lookup so resolution is testable
// without mutating the real environment.
type Env interface {
	LookupEnv(key string) (string, bool)
}

// OSEnv reads the real process environment.
func OSEnv() Env { return osEnv{} }

type osEnv struct{}

func (osEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnv is an Env backed by a fixed map, for tests.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}
