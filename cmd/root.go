package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "dealpipe",
	Short: "Pitch deck analysis pipeline",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	return rootCmd.Execute()
}
