package main

import (
	"github.com/replicate/wheelforge/pkg/cli"
	"github.com/replicate/wheelforge/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", cli.ErrorMessage(err))
	}
}
