package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubctl/hubctl/pkg/auth"
	"github.com/hubctl/hubctl/pkg/config"
)

func TestAuthTokenFromConfig(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "token", "--hostname", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "tok-123\n", out)
}

func TestAuthTokenFromEnvBeatsConfig(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")

	out, _, err := runCLI(t, testOptions{
		dir: dir,
		env: auth.MapEnv{"GH_TOKEN": "env-tok"},
	}, "auth", "token", "--hostname", "example.com")
	require.NoError(t, err)
	assert.Equal(t, "env-tok\n", out)
}

func TestAuthTokenMissing(t *testing.T) {
	_, _, err := runCLI(t, testOptions{}, "auth", "token", "--hostname", "example.com")
	require.Error(t, err)

	var noToken *auth.NoTokenError
	require.ErrorAs(t, err, &noToken)
	assert.Equal(t, "example.com", noToken.Host)
}

func TestAuthTokenForSpecificUser(t *testing.T) {
	dir := t.TempDir()
	store, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, store.Login("example.com", "alice", "tok-alice", ""))
	require.NoError(t, store.Login("example.com", "bob", "tok-bob", ""))
	require.NoError(t, store.Write())

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "token", "--hostname", "example.com", "-u", "alice")
	require.NoError(t, err)
	assert.Equal(t, "tok-alice\n", out)
}

func TestAuthLoginWithToken(t *testing.T) {
	dir := t.TempDir()
	out, _, err := runCLI(t, testOptions{
		dir:   dir,
		input: "tok-123\n",
	}, "auth", "login", "--with-token", "-u", "alice", "--hostname", "example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in to example.com as alice")

	store, err := config.Load(dir)
	require.NoError(t, err)
	token, ok := store.TokenFor("example.com")
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)
}

func TestAuthLoginRequiresWithToken(t *testing.T) {
	_, _, err := runCLI(t, testOptions{}, "auth", "login", "-u", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--with-token")
}

func TestAuthLoginRejectsBadProtocol(t *testing.T) {
	_, _, err := runCLI(t, testOptions{input: "tok\n"},
		"auth", "login", "--with-token", "-u", "alice", "-p", "ftp")
	require.Error(t, err)

	var invalid *config.InvalidValueError
	require.ErrorAs(t, err, &invalid)
}

func TestAuthLoginSecureStorage(t *testing.T) {
	dir := t.TempDir()
	kr := auth.MemoryKeyring{}
	_, _, err := runCLI(t, testOptions{
		dir:     dir,
		input:   "tok-123\n",
		keyring: kr,
	}, "auth", "login", "--with-token", "-u", "alice", "--hostname", "example.com", "--secure-storage")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", kr["example.com"])

	store, err := config.Load(dir)
	require.NoError(t, err)
	_, stored := store.TokenFor("example.com")
	assert.False(t, stored)
}

func TestAuthLogout(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "logout", "--hostname", "example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out of example.com account alice")

	store, err := config.Load(dir)
	require.NoError(t, err)
	_, ok := store.TokenFor("example.com")
	assert.False(t, ok)
}

func TestAuthLogoutNotLoggedIn(t *testing.T) {
	_, _, err := runCLI(t, testOptions{}, "auth", "logout", "--hostname", "example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestAuthSwitch(t *testing.T) {
	dir := t.TempDir()
	store, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, store.Login("example.com", "alice", "tok-alice", ""))
	require.NoError(t, store.Login("example.com", "bob", "tok-bob", ""))
	require.NoError(t, store.Write())

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "switch", "--hostname", "example.com", "-u", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Switched active account on example.com to alice")

	reloaded, err := config.Load(dir)
	require.NoError(t, err)
	token, _ := reloaded.TokenFor("example.com")
	assert.Equal(t, "tok-alice", token)
}

func TestAuthStatus(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123456")

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "hosts.yml")
	assert.NotContains(t, out, "tok-123456")
}

func TestAuthStatusShowToken(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123456")

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "status", "--show-token")
	require.NoError(t, err)
	assert.Contains(t, out, "tok-123456")
}

func TestAuthStatusEnvTokenNotWriteable(t *testing.T) {
	out, _, err := runCLI(t, testOptions{
		env: auth.MapEnv{"GH_TOKEN": "env-tok", "GH_HOST": "example.com"},
	}, "auth", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "GH_TOKEN")
	assert.Contains(t, out, "cannot be changed")
}

func TestAuthStatusJSON(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123456")

	out, _, err := runCLI(t, testOptions{dir: dir}, "auth", "status", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"host": "example.com"`)
	assert.Contains(t, out, `"activeUser": "alice"`)
}

func TestAuthStatusNoHosts(t *testing.T) {
	_, _, err := runCLI(t, testOptions{}, "auth", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestAuthGitCredentialGet(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir, "example.com", "alice", "tok-123")

	out, _, err := runCLI(t, testOptions{
		dir:   dir,
		input: "protocol=https\nhost=example.com\n\n",
	}, "auth", "git-credential", "get")
	require.NoError(t, err)
	assert.Equal(t, "protocol=https\nhost=example.com\nusername=alice\npassword=tok-123\n", out)
}

func TestAuthGitCredentialStoreIsNoOp(t *testing.T) {
	out, _, err := runCLI(t, testOptions{
		input: "protocol=https\nhost=example.com\npassword=x\n\n",
	}, "auth", "git-credential", "store")
	require.NoError(t, err)
	assert.Empty(t, out)
}
