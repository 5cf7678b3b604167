package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitRecorder(calls *[][]string) func(args ...string) error {
	return func(args ...string) error {
		*calls = append(*calls, args)
		return nil
	}
}

func TestSetupGitConfiguresHostAndGistHost(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")

	var calls [][]string
	_, _, err := runCLI(t, testOptions{dir: dir, git: gitRecorder(&calls)},
		"auth", "setup-git", "--hostname", "example.com")
	require.NoError(t, err)

	// Two invocations per host: reset the helper list, then register.
	require.Len(t, calls, 4)
	assert.Equal(t, []string{"config", "--global", "--replace-all", "credential.https://example.com.helper", ""}, calls[0])
	assert.Contains(t, strings.Join(calls[1], " "), "auth git-credential")
	assert.Equal(t, "credential.https://gist.example.com.helper", calls[2][3])
}

func TestSetupGitAllKnownHosts(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")
	seedStore(t, dir, "other.example.com", "bob", "tok-456")

	var calls [][]string
	_, _, err := runCLI(t, testOptions{dir: dir, git: gitRecorder(&calls)}, "auth", "setup-git")
	require.NoError(t, err)
	assert.Len(t, calls, 8)
}

func TestSetupGitRequiresLogin(t *testing.T) {
	var calls [][]string
	_, _, err := runCLI(t, testOptions{git: gitRecorder(&calls)},
		"auth", "setup-git", "--hostname", "example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
	assert.Empty(t, calls)
}

func TestSetupGitForceSkipsLoginCheck(t *testing.T) {
	var calls [][]string
	_, _, err := runCLI(t, testOptions{git: gitRecorder(&calls)},
		"auth", "setup-git", "--hostname", "example.com", "--force")
	require.NoError(t, err)
	assert.Len(t, calls, 4)
}
