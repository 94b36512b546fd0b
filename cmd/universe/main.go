package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "universe",
	Short: "Repository activity rendered as a universe of planets and ships",
	Long: "universe follows a GitHub activity feed: repositories form planets on orbit rings, " +
		"committers become ships that jump to the repositories they touch and fire at them.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
