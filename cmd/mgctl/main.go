package main

import (
	"os"

	mgctlcmd "github.com/telekom/mailgate/pkg/mgctl/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := mgctlcmd.NewRootCommand(mgctlcmd.DefaultConfig())
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
