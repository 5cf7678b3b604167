package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubctl/hubctl/pkg/cmdutil"
	"github.com/hubctl/hubctl/pkg/config"
	"github.com/hubctl/hubctl/pkg/output"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hubctl configuration",
	}

	cmd.AddCommand(
		newConfigGetCommand(),
		newConfigSetCommand(),
		newConfigListCommand(),
	)

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	var hostname string

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value of a configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			value := rt.store.Config().GetOrDefault(hostname, args[0])
			if value != "" {
				_, _ = fmt.Fprintln(rt.Writer(), value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Read a host-scoped value")
	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var hostname string

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			warning, err := rt.store.Config().Set(hostname, args[0], args[1])
			if err != nil {
				return err
			}
			if warning != "" {
				_, _ = fmt.Fprintf(rt.ErrWriter(), "%s warning: %s\n", warningIcon(), warning)
			}
			return rt.store.Config().Write()
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "Set a host-scoped value")
	return cmd
}

func newConfigListCommand() *cobra.Command {
	var (
		hostname     string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every known configuration key with its resolved value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return cmdutil.FlagErrorf("%s", err)
			}

			rows := make([]output.ConfigRow, 0, len(config.Options))
			for _, opt := range config.Options {
				rows = append(rows, output.ConfigRow{
					Key:   opt.Key,
					Value: rt.store.Config().GetOrDefault(hostname, opt.Key),
				})
			}
			if format != output.FormatTable {
				return output.WriteObject(rt.Writer(), format, rows)
			}
			output.WriteConfigTable(rt.Writer(), rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&hostname, "hostname", "", "List values resolved for a host")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, yaml")
	return cmd
}
