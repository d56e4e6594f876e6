/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ai-assistant",
	Short: "Multi-platform AI assistant gateway",
	Long:  "Routes Discord, WhatsApp and iMessage messages to an AI assistant,\nwith keyword lookups and a reminder scheduler.",
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
