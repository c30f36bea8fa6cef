// Package cmd implements the cadre command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadre",
	Short: "Recruitment-cycle management service",
	Long: `cadre manages a recruitment cycle: applicants submit responses,
reviewers and interviewers score them against weighted rubrics, statuses
advance through a fixed state machine, and accepted applicants confirm
their offers once decisions are released.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
