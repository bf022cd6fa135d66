package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refinehq/refine"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of refine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("refine version %s\n", refine.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
