// Package main provides the entry point for the careerpilot HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerpilot",
	Short: "Career-guidance chat API server",
	Long:  "careerpilot answers career questions over REST, grounding answers in freshly scraped job postings indexed into a search service.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
