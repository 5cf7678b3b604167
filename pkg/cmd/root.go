package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hubctl/hubctl/pkg/auth"
	"github.com/hubctl/hubctl/pkg/config"
	"github.com/hubctl/hubctl/pkg/logging"
)

// Config carries the injectable pieces of a CLI invocation. Tests
// swap in buffers, a fixed environment, and an in-memory keyring.
type Config struct {
	ConfigDir    string
	OutputWriter io.Writer
	ErrWriter    io.Writer
	InputReader  io.Reader
	Env          auth.Env
	Keyring      auth.Keyring
	GitRunner    func(args ...string) error
}

type runtimeState struct {
	configDir string
	store     *auth.Store
	verbose   bool
	writer    io.Writer
	errWriter io.Writer
	in        io.Reader
	env       auth.Env
	keyring   auth.Keyring
	log       *zap.SugaredLogger
	gitRunner gitRunner
}

type runtimeKey struct{}

func DefaultConfig() Config {
	return Config{
		ConfigDir:    config.Dir(),
		OutputWriter: os.Stdout,
		ErrWriter:    os.Stderr,
		InputReader:  os.Stdin,
		Env:          auth.OSEnv(),
		Keyring:      auth.SystemKeyring(),
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{
		configDir: cfg.ConfigDir,
		writer:    cfg.OutputWriter,
		errWriter: cfg.ErrWriter,
		in:        cfg.InputReader,
		env:       cfg.Env,
		keyring:   cfg.Keyring,
		gitRunner: cfg.GitRunner,
	}
	if rt.gitRunner == nil {
		rt.gitRunner = runGit
	}

	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Work with a code hosting service from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.errWriter == nil {
				rt.errWriter = os.Stderr
			}
			if rt.in == nil {
				rt.in = os.Stdin
			}
			if rt.env == nil {
				rt.env = auth.OSEnv()
			}
			if rt.keyring == nil {
				rt.keyring = auth.SystemKeyring()
			}
			if rt.configDir == "" {
				rt.configDir = config.Dir()
			}
			if !rt.verbose {
				if v, ok := rt.env.LookupEnv("HUBCTL_DEBUG"); ok {
					rt.verbose = strings.EqualFold(v, "true") || v == "1"
				}
			}

			log, err := logging.Setup(rt.verbose)
			if err != nil {
				return err
			}
			rt.log = log

			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}

			store, err := config.Load(rt.configDir)
			if err != nil {
				return err
			}
			rt.store = auth.NewStore(store, rt.env, rt.keyring)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&rt.configDir, "config-dir", rt.configDir, "Directory holding hubctl configuration")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		NewAuthCommand(),
		NewConfigCommand(),
		NewAliasCommand(),
		NewCompletionCommand(),
		NewVersionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) ErrWriter() io.Writer {
	if rt.errWriter != nil {
		return rt.errWriter
	}
	return os.Stderr
}

// resolveHost picks the host a command operates on: the --hostname
// flag, else the store's default.
func (rt *runtimeState) resolveHost(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return rt.store.DefaultHost()
}

// ExpandAlias rewrites an invocation whose first argument names a
// stored alias. Arguments after the alias are appended to the
// expansion. Non-aliases come back unchanged.
func ExpandAlias(store *config.Store, args []string) []string {
	if len(args) == 0 {
		return args
	}
	expansion, ok := store.Aliases()[args[0]]
	if !ok {
		return args
	}
	expanded := strings.Fields(expansion)
	return append(expanded, args[1:]...)
}
