package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hubctl/hubctl/pkg/cmdutil"
	"github.com/hubctl/hubctl/pkg/output"
)

func NewAliasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Create shortcuts for hubctl commands",
	}

	cmd.AddCommand(
		newAliasSetCommand(),
		newAliasListCommand(),
		newAliasDeleteCommand(),
	)

	return cmd
}

func newAliasSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME EXPANSION",
		Short: "Define a command shortcut",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			name, expansion := args[0], args[1]
			if found, _, err := cmd.Root().Find([]string{name}); err == nil && found != nil && found != cmd.Root() {
				return cmdutil.FlagErrorf("could not create alias: %q is already a hubctl command", name)
			}
			if err := rt.store.Config().SetAlias(name, expansion); err != nil {
				return err
			}
			if err := rt.store.Config().Write(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s Added alias %s\n", successIcon(), name)
			return nil
		},
	}
}

func newAliasListCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List defined shortcuts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return cmdutil.FlagErrorf("%s", err)
			}

			aliases := rt.store.Config().Aliases()
			names := make([]string, 0, len(aliases))
			for name := range aliases {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([]output.AliasRow, 0, len(names))
			for _, name := range names {
				rows = append(rows, output.AliasRow{Name: name, Expansion: aliases[name]})
			}
			if format != output.FormatTable {
				return output.WriteObject(rt.Writer(), format, rows)
			}
			output.WriteAliasTable(rt.Writer(), rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, yaml")
	return cmd
}

func newAliasDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a shortcut",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			expansion, found := rt.store.Config().DeleteAlias(args[0])
			if !found {
				return fmt.Errorf("no such alias: %s", args[0])
			}
			if err := rt.store.Config().Write(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "%s Deleted alias %s (was: %s)\n", successIcon(), args[0], expansion)
			return nil
		},
	}
}
