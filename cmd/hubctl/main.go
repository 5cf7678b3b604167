package main

import (
	"errors"
	"fmt"
	"os"

	hubcmd "github.com/hubctl/hubctl/pkg/cmd"
	"github.com/hubctl/hubctl/pkg/cmdutil"
	"github.com/hubctl/hubctl/pkg/config"
)

func main() {
	root := hubcmd.NewRootCommand(hubcmd.DefaultConfig())

	args := os.Args[1:]
	if store, err := config.LoadDefault(); err == nil {
		args = hubcmd.ExpandAlias(store, args)
	}
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		if errors.Is(err, cmdutil.SilentError) {
			os.Exit(1)
		}
		var flagErr *cmdutil.FlagError
		if errors.As(err, &flagErr) {
			fmt.Fprintf(os.Stderr, "%s\n\n%s\n", flagErr, root.UsageString())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
