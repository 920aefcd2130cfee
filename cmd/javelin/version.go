package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"javelin/internal/version"
)

var (
	versionShowHash bool
	versionShowDate bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("javelin %s\n", version.Version)
		if versionShowHash && version.GitCommit != "" {
			fmt.Printf("commit: %s\n", version.GitCommit)
		}
		if versionShowDate && version.BuildDate != "" {
			fmt.Printf("built: %s\n", version.BuildDate)
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShowHash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionShowDate, "date", false, "include build timestamp")
}
