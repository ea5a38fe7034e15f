// Command swungctl is the admin CLI: GitHub Copilot login plus quick access
// to the assistant's REST API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag  string
	userFlag int64
	rootCmd  = &cobra.Command{
		Use:   "swungctl",
		Short: "CLI client for the swung assistant service",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:3000", "Service base URL")
	rootCmd.PersistentFlags().Int64VarP(&userFlag, "user", "u", 1, "Acting user id")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
