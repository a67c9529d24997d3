package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"winnow/internal/config"
)

var initForce bool

// initCmd writes the default project configuration.
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default .winnow.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	path, err := config.WriteDefault(dir, initForce)
	if err != nil {
		return err
	}

	if !quiet {
		verb := "Initialized"
		if initForce {
			verb = "Overwrote"
		}
		fmt.Printf("%s %s\n", verb, path)
	}
	return nil
}
