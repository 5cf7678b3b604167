package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hubctl/hubctl/pkg/auth"
	"github.com/hubctl/hubctl/pkg/cmdutil"
	"github.com/hubctl/hubctl/pkg/config"
	"github.com/hubctl/hubctl/pkg/credential"
	"github.com/hubctl/hubctl/pkg/ghinstance"
	"github.com/hubctl/hubctl/pkg/output"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with code hosting services",
	}

	cmd.AddCommand(
		newAuthTokenCommand(),
		newAuthLoginCommand(),
		newAuthLogoutCommand(),
		newAuthSwitchCommand(),
		newAuthStatusCommand(),
		newAuthGitCredentialCommand(),
		newAuthSetupGitCommand(),
	)

	return cmd
}

func newAuthTokenCommand() *cobra.Command {
	var hostname, user string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the authentication token for a host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			host := rt.resolveHost(hostname)

			if user != "" {
				token, ok := rt.store.TokenForUser(host, user)
				if !ok {
					return &auth.NoTokenError{Host: host, User: user}
				}
				_, _ = fmt.Fprintln(rt.Writer(), token)
				return nil
			}

			token, _, ok := rt.store.ActiveToken(host)
			if !ok {
				return &auth.NoTokenError{Host: host}
			}
			_, _ = fmt.Fprintln(rt.Writer(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "The host to print the token for")
	cmd.Flags().StringVarP(&user, "user", "u", "", "Print the token for a specific stored account")
	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		hostname      string
		user          string
		withToken     bool
		gitProtocol   string
		secureStorage bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a code hosting service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if !withToken {
				return cmdutil.FlagErrorf("--with-token is required: pass the token on standard input")
			}
			if user == "" {
				return cmdutil.FlagErrorf("--user is required with --with-token")
			}
			if gitProtocol != "" {
				opt, _ := config.OptionFor(config.KeyGitProtocol)
				if err := opt.ValidateValue(gitProtocol); err != nil {
					return err
				}
			}

			scanner := bufio.NewScanner(rt.in)
			scanner.Scan()
			token := strings.TrimSpace(scanner.Text())
			if token == "" {
				return cmdutil.FlagErrorf("no token supplied on standard input")
			}

			host := hostname
			if host == "" {
				host = ghinstance.Default
			}
			if err := rt.store.Login(host, user, token, gitProtocol, secureStorage); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s Logged in to %s as %s\n", successIcon(), ghinstance.NormalizeHostname(host), user)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "The host to authenticate with")
	cmd.Flags().StringVarP(&user, "user", "u", "", "The account to log in as")
	cmd.Flags().BoolVar(&withToken, "with-token", false, "Read the token from standard input")
	cmd.Flags().StringVarP(&gitProtocol, "git-protocol", "p", "", "Protocol for git operations: https or ssh")
	cmd.Flags().BoolVar(&secureStorage, "secure-storage", false, "Store the token in the system keyring")
	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	var hostname, user string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials for a host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			host := rt.resolveHost(hostname)
			if user == "" {
				active, ok := rt.store.Config().ActiveUserFor(ghinstance.NormalizeHostname(host))
				if !ok {
					return fmt.Errorf("not logged in to %s", host)
				}
				user = active
			}
			if err := rt.store.Logout(host, user); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s Logged out of %s account %s\n", successIcon(), ghinstance.NormalizeHostname(host), user)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "The host to log out of")
	cmd.Flags().StringVarP(&user, "user", "u", "", "The account to log out of")
	return cmd
}

func newAuthSwitchCommand() *cobra.Command {
	var hostname, user string

	cmd := &cobra.Command{
		Use:   "switch",
		Short: "Switch the active account for a host",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if user == "" {
				return cmdutil.FlagErrorf("--user is required")
			}
			host := rt.resolveHost(hostname)
			if err := rt.store.SwitchUser(host, user); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s Switched active account on %s to %s\n", successIcon(), ghinstance.NormalizeHostname(host), user)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "The host to switch accounts on")
	cmd.Flags().StringVarP(&user, "user", "u", "", "The account to switch to")
	return cmd
}

func newAuthStatusCommand() *cobra.Command {
	var (
		hostname     string
		showToken    bool
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show authentication state for known hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return cmdutil.FlagErrorf("%s", err)
			}

			hosts := rt.store.Hosts()
			if hostname != "" {
				hosts = []string{ghinstance.NormalizeHostname(hostname)}
			}
			if len(hosts) == 0 {
				return fmt.Errorf("not logged in to any hosts; run `hubctl auth login`")
			}

			var rows []output.HostStatus
			for _, host := range hosts {
				row := output.HostStatus{
					Host:        host,
					GitProtocol: rt.store.Config().GetOrDefault(host, config.KeyGitProtocol),
				}
				token, src, ok := rt.store.ActiveToken(host)
				if ok {
					row.TokenSource = src.String()
					row.Writeable = src.Writeable()
					row.Token = output.MaskToken(token)
					if showToken {
						row.Token = token
					}
					if user, ok := rt.store.ActiveUser(host); ok {
						row.ActiveUser = user
					}
					row.Users = rt.store.Users(host)
				}
				rows = append(rows, row)
			}

			if format != output.FormatTable {
				return output.WriteObject(rt.Writer(), format, rows)
			}
			writeStatusText(rt, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Check only this host")
	cmd.Flags().BoolVarP(&showToken, "show-token", "t", false, "Display the full token")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, yaml")
	return cmd
}

func writeStatusText(rt *runtimeState, rows []output.HostStatus) {
	w := rt.Writer()
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\n", row.Host)
		if row.TokenSource == "" {
			_, _ = fmt.Fprintf(w, "  %s Not logged in\n", failureIcon())
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s Logged in as %s (%s)\n", successIcon(), row.ActiveUser, row.TokenSource)
		_, _ = fmt.Fprintf(w, "  - Token: %s\n", row.Token)
		_, _ = fmt.Fprintf(w, "  - Git protocol: %s\n", row.GitProtocol)
		if !row.Writeable {
			_, _ = fmt.Fprintf(w, "  %s Token comes from the environment and cannot be changed by hubctl\n", warningIcon())
		}
	}
}

func newAuthGitCredentialCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "git-credential <operation>",
		Short:  "Implement the git credential helper protocol",
		Args:   cobra.ExactArgs(1),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			return credential.Run(rt.store, args[0], rt.in, rt.Writer())
		},
	}
}

func successIcon() string {
	return color.GreenString("✓")
}

func failureIcon() string {
	return color.RedString("✗")
}

func warningIcon() string {
	return color.YellowString("!")
}
