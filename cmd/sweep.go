package cmd

import (
	"fmt"
	"os"

	"github.com/ossmaint/cleanowners/config"
	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
	"github.com/ossmaint/cleanowners/internal/sweep"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// defaultIssueReportPath is where the markdown sweep report is written when
// --issue-report is set without a configured path.
const defaultIssueReportPath = "codeowners-report.md"

// NewCmdSweep creates the sweep command.
func NewCmdSweep(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Open PRs removing ex-members from CODEOWNERS (same as root cleanowners)",
		Long: `Scans the organization's repositories for CODEOWNERS entries naming
users who are no longer organization members, and opens a pull request
per repository removing them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, opts)
		},
	}

	addSweepFlags(cmd, opts)
	return cmd
}

// addSweepFlags adds the sweep-specific flags to a command.
func addSweepFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVar(&opts.Org, "org", "", "Organization to sweep")
	cmd.Flags().StringSliceVar(&opts.Repos, "repo", nil, "Repository to sweep (owner/name, repeatable; overrides --org scanning)")
	cmd.Flags().StringSliceVar(&opts.Exempt, "exempt", nil, "Repository to skip (owner/name, repeatable)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without opening pull requests")
	cmd.Flags().BoolVar(&opts.IssueReport, "issue-report", false, "Write a markdown report of the run")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent repositories to process (default 5)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

func runSweep(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sweepOpts := buildSweepOptions(cfg, opts)

	client, err := ghclient.NewClient(cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	engine := sweep.New(client, sweepOpts)
	stats, err := engine.Run(cmd.Context())
	if err != nil {
		return err
	}

	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	stats.Summary(cmd.OutOrStdout(), colorize)

	if wantIssueReport(cfg, opts) {
		path := issueReportPath(cfg)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create issue report: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := stats.Markdown(f); err != nil {
			return fmt.Errorf("failed to write issue report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Markdown report written to %s\n", path)
	}

	return nil
}

// buildSweepOptions resolves flags over config.
func buildSweepOptions(cfg *config.Config, opts *Options) sweep.Options {
	sweepOpts := sweep.Options{
		Organization: opts.Org,
		Repositories: opts.Repos,
		ExemptRepos:  opts.Exempt,
		DryRun:       opts.DryRun || cfg.DryRun,
		Workers:      opts.Workers,
	}

	if sweepOpts.Organization == "" {
		sweepOpts.Organization = cfg.Organization
	}
	if len(sweepOpts.Repositories) == 0 {
		sweepOpts.Repositories = cfg.Repositories
	}
	if len(sweepOpts.ExemptRepos) == 0 {
		sweepOpts.ExemptRepos = cfg.ExemptRepos
	}

	if sc := cfg.Sweep; sc != nil {
		sweepOpts.PRTitle = sc.PRTitle
		sweepOpts.PRBody = sc.PRBody
		sweepOpts.CommitMessage = sc.CommitMessage
		if sweepOpts.Workers <= 0 {
			sweepOpts.Workers = sc.Workers
		}
	}

	return sweepOpts
}

func wantIssueReport(cfg *config.Config, opts *Options) bool {
	if opts.IssueReport {
		return true
	}
	return cfg.Sweep != nil && cfg.Sweep.IssueReport
}

func issueReportPath(cfg *config.Config) string {
	if cfg.Sweep != nil && cfg.Sweep.IssueReportPath != "" {
		return cfg.Sweep.IssueReportPath
	}
	return defaultIssueReportPath
}
