package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/macrograph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of macrograph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "macrograph version %s\n", strings.TrimSpace(macrograph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
