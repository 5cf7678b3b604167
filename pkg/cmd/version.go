package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubctl/hubctl/pkg/cmdutil"
	"github.com/hubctl/hubctl/pkg/output"
	"github.com/hubctl/hubctl/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show hubctl version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetBuildInfo()

			rt, _ := getRuntime(cmd)
			writer := cmd.OutOrStdout()
			if rt != nil {
				writer = rt.Writer()
			}

			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return cmdutil.FlagErrorf("%s", err)
			}
			if format != output.FormatTable {
				return output.WriteObject(writer, format, info)
			}
			_, _ = fmt.Fprintln(writer, info.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: json, yaml")
	return cmd
}
