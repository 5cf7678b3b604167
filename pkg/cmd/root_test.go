package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubctl/hubctl/pkg/auth"
	"github.com/hubctl/hubctl/pkg/config"
)

// testOptions configures one CLI invocation in tests.
type testOptions struct {
	dir     string
	input   string
	env     auth.MapEnv
	keyring auth.MemoryKeyring
	git     func(args ...string) error
}

func runCLI(t *testing.T, opts testOptions, args ...string) (string, string, error) {
	t.Helper()
	if opts.dir == "" {
		opts.dir = t.TempDir()
	}
	if opts.env == nil {
		opts.env = auth.MapEnv{}
	}
	if opts.keyring == nil {
		opts.keyring = auth.MemoryKeyring{}
	}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	root := NewRootCommand(Config{
		ConfigDir:    opts.dir,
		OutputWriter: out,
		ErrWriter:    errOut,
		InputReader:  strings.NewReader(opts.input),
		Env:          opts.env,
		Keyring:      opts.keyring,
		GitRunner:    opts.git,
	})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// seedStore logs a user in to the on-disk store a test invocation
// will load.
func seedStore(t *testing.T, dir, host, user, token string) {
	t.Helper()
	store, err := config.Load(dir)
	require.NoError(t, err)
	require.NoError(t, store.Login(host, user, token, ""))
	require.NoError(t, store.Write())
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, testOptions{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hubctl dev")
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := runCLI(t, testOptions{}, "version", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
}

func TestCompletionBash(t *testing.T) {
	out, _, err := runCLI(t, testOptions{}, "completion", "bash")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCompletionUnsupportedShell(t *testing.T) {
	_, _, err := runCLI(t, testOptions{}, "completion", "tcsh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestExpandAlias(t *testing.T) {
	store := config.NewBlank()
	require.NoError(t, store.SetAlias("co", "pr checkout"))

	assert.Equal(t, []string{"pr", "checkout", "123"}, ExpandAlias(store, []string{"co", "123"}))
	assert.Equal(t, []string{"auth", "status"}, ExpandAlias(store, []string{"auth", "status"}))
	assert.Empty(t, ExpandAlias(store, nil))
}
