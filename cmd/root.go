package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "cleanowners",
		Short: "CODEOWNERS hygiene and contributor reporting for GitHub organizations",
		Long: `A CLI tool that keeps CODEOWNERS files honest and maintainers informed.
It sweeps an organization's repositories for CODEOWNERS entries naming
users who have left the organization and opens pull requests removing
them, and files monthly contributor reports as tracked issues.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add sweep flags to the root so `cleanowners` and `cleanowners sweep`
	// work identically.
	addSweepFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdSweep(opts))
	rootCmd.AddCommand(NewCmdReport(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
