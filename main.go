package main

import (
	"fmt"

	"github.com/zeu5/treatment-rl/commands"
)

// main entry point to the estimation tool
func main() {
	// rootCommand defines a command line argument parser (some arguments and a subcommand to run)
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
