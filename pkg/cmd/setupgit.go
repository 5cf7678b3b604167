package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/hubctl/hubctl/pkg/ghinstance"
)

// gitRunner executes a git invocation. Swapped for a recorder in
// tests.
type gitRunner func(args ...string) error

func runGit(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w", args[0], err)
	}
	return nil
}

func newAuthSetupGitCommand() *cobra.Command {
	var (
		hostname string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "setup-git",
		Short: "Configure git to use hubctl as a credential helper",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}

			var hosts []string
			if hostname != "" {
				host := ghinstance.NormalizeHostname(hostname)
				if !force {
					if _, _, ok := rt.store.ActiveToken(host); !ok {
						return fmt.Errorf("not logged in to %s; run `hubctl auth login` or pass --force", host)
					}
				}
				hosts = []string{host}
			} else {
				hosts = rt.store.Hosts()
				if len(hosts) == 0 {
					return fmt.Errorf("not logged in to any hosts; run `hubctl auth login` or pass --hostname with --force")
				}
			}

			for _, host := range hosts {
				if err := configureGitHelper(rt.gitRunner, host); err != nil {
					return err
				}
				// Gist remotes resolve through the same helper.
				if !ghinstance.IsGistHost(host) {
					if err := configureGitHelper(rt.gitRunner, ghinstance.GistHost(host)); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Configure git for this host only")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Configure git even when not logged in")
	return cmd
}

// configureGitHelper clears any previously configured helpers for the
// host and registers hubctl as the sole one. The leading empty value
// resets git's helper list so system-wide helpers do not shadow ours.
func configureGitHelper(run gitRunner, host string) error {
	key := fmt.Sprintf("credential.https://%s.helper", host)
	if err := run("config", "--global", "--replace-all", key, ""); err != nil {
		return err
	}
	return run("config", "--global", "--add", key, fmt.Sprintf("!%s auth git-credential", executableName()))
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		return "hubctl"
	}
	return exe
}
