package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information set at build time
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version, git commit, and build date of parse-idl.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		color.New(color.Bold).Fprintln(w, "parse-idl")
		fmt.Fprintf(w, "  Version:    %s\n", color.New(color.FgGreen).Sprint(Version))
		fmt.Fprintf(w, "  Git Commit: %s\n", GitCommit)
		fmt.Fprintf(w, "  Build Date: %s\n", BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
