package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobhunter/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobhunter version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(server.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
