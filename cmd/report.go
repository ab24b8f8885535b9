package cmd

import (
	"fmt"
	"time"

	"github.com/ossmaint/cleanowners/config"
	"github.com/ossmaint/cleanowners/internal/daterange"
	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
	"github.com/ossmaint/cleanowners/internal/report"
	"github.com/spf13/cobra"
)

// NewCmdReport creates the report command.
func NewCmdReport(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate last month's contributor report and file it as an issue",
		Long: `Computes the date range for the previous calendar month, generates a
contributor report for the configured repository over that range, and
files the report as a tracked issue assigned to a maintainer.

Intended to run once a month from a scheduler, or on demand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts)
		},
	}

	addReportFlags(cmd, opts)
	cmd.AddCommand(newCmdReportRange(opts))
	return cmd
}

// addReportFlags adds the report-specific flags to a command.
func addReportFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Repo, "repo", "r", "", "Repository to report on (owner/name)")
	cmd.Flags().StringVar(&opts.RefDate, "ref-date", "", "Reference date (YYYY-MM-DD, default today); the report covers the month before it")
	cmd.Flags().BoolVar(&opts.SponsorInfo, "sponsor-info", true, "Include sponsorship info for contributors")
	cmd.Flags().StringSliceVarP(&opts.Assignees, "assignee", "a", nil, "Assignee for the filed issue (repeatable)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Issue title (default \""+report.DefaultIssueTitle+"\")")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Report file path (default "+report.DefaultOutputPath+")")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Generate the report but do not file an issue")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
}

// newCmdReportRange creates the report range subcommand, which only prints
// the computed previous-month window.
func newCmdReportRange(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the previous month's date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := resolveRefDate(opts.RefDate)
			if err != nil {
				return err
			}
			rng := daterange.PreviousMonth(ref)
			fmt.Fprintf(cmd.OutOrStdout(), "START_DATE=%s\n", rng.StartString())
			fmt.Fprintf(cmd.OutOrStdout(), "END_DATE=%s\n", rng.EndString())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.RefDate, "ref-date", "", "Reference date (YYYY-MM-DD, default today)")
	return cmd
}

// resolveRefDate parses the --ref-date flag, defaulting to the current date.
func resolveRefDate(refDate string) (time.Time, error) {
	if refDate == "" {
		return time.Now().UTC(), nil
	}
	ref, err := time.Parse(daterange.ISO, refDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --ref-date %q, expected YYYY-MM-DD: %w", refDate, err)
	}
	return ref, nil
}

func runReport(cmd *cobra.Command, opts *Options) error {
	log.Initialize(opts.Verbosity, cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ref, err := resolveRefDate(opts.RefDate)
	if err != nil {
		return err
	}

	runOpts := buildReportOptions(cfg, opts, ref, cmd.Flags().Changed("sponsor-info"))

	client, err := ghclient.NewClient(cfg.GetGitHubToken())
	if err != nil {
		return err
	}

	pipeline := report.NewPipeline(client)
	result, err := pipeline.Run(cmd.Context(), runOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "START_DATE=%s\n", result.Range.StartString())
	fmt.Fprintf(out, "END_DATE=%s\n", result.Range.EndString())
	fmt.Fprintf(out, "Report written to %s\n", result.ReportPath)
	if result.Filed {
		fmt.Fprintf(out, "Issue #%d filed: %s\n", result.Issue.Number, result.Issue.URL)
	} else {
		fmt.Fprintln(out, "Dry run: no issue filed")
	}
	return nil
}

// buildReportOptions resolves flags over config over defaults. An explicit
// --sponsor-info flag wins over the config value.
func buildReportOptions(cfg *config.Config, opts *Options, ref time.Time, sponsorFlagSet bool) report.RunOptions {
	runOpts := report.RunOptions{
		Repo:        opts.Repo,
		RefDate:     ref,
		SponsorInfo: opts.SponsorInfo,
		Title:       opts.Title,
		Assignees:   opts.Assignees,
		OutputPath:  opts.Output,
		DryRun:      opts.DryRun || cfg.DryRun,
	}

	if rc := cfg.Report; rc != nil {
		if runOpts.Repo == "" {
			runOpts.Repo = rc.Repository
		}
		if runOpts.Title == "" {
			runOpts.Title = rc.Title
		}
		if len(runOpts.Assignees) == 0 {
			runOpts.Assignees = rc.Assignees
		}
		if runOpts.OutputPath == "" {
			runOpts.OutputPath = rc.Output
		}
		if rc.SponsorInfo != nil && !sponsorFlagSet {
			runOpts.SponsorInfo = *rc.SponsorInfo
		}
	}

	// A single configured repository also serves as the report target.
	if runOpts.Repo == "" && len(cfg.Repositories) == 1 {
		runOpts.Repo = cfg.Repositories[0]
	}

	return runOpts
}
