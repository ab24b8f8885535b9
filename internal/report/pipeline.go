package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ossmaint/cleanowners/internal/daterange"
	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
)

// RunOptions configures one report pipeline invocation.
type RunOptions struct {
	Repo        string    // owner/name to report on and file the issue in
	RefDate     time.Time // zero means "now"; the report covers the month before this date
	SponsorInfo bool
	Title       string
	Assignees   []string
	OutputPath  string
	DryRun      bool // generate the report but do not file an issue
}

// Result describes what a pipeline run produced.
type Result struct {
	Range      daterange.Range
	ReportPath string
	Issue      ghclient.IssueRef
	Filed      bool
}

// Pipeline runs the linear monthly flow: compute the previous month's range,
// generate the contributor report, file it as an issue. Either collaborator
// failing fails the whole run.
type Pipeline struct {
	Generator Generator
	Filer     Filer

	// Now is the clock used when RunOptions.RefDate is zero. Defaults to
	// time.Now; injectable for tests.
	Now func() time.Time
}

// NewPipeline creates a pipeline with real GitHub-backed collaborators.
func NewPipeline(api ghclient.ReportAPI) *Pipeline {
	return &Pipeline{
		Generator: NewGenerator(api),
		Filer:     NewFiler(api),
	}
}

// Run executes the pipeline once. On issue-filing failure the generated
// report file is removed so no partial output survives the run.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	if opts.Repo == "" {
		return nil, fmt.Errorf("no repository configured for the report")
	}

	ref := opts.RefDate
	if ref.IsZero() {
		now := p.Now
		if now == nil {
			now = time.Now
		}
		ref = now().UTC()
	}

	rng := daterange.PreviousMonth(ref)
	log.Info("computed report range", "start", rng.StartString(), "end", rng.EndString())

	path, err := p.Generator.Generate(ctx, GenerateInput{
		Repo:        opts.Repo,
		Range:       rng,
		SponsorInfo: opts.SponsorInfo,
		OutputPath:  opts.OutputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	result := &Result{Range: rng, ReportPath: path}

	if opts.DryRun {
		log.Info("dry run, skipping issue creation", "report", path)
		return result, nil
	}

	issue, err := p.Filer.File(ctx, FileInput{
		Repo:       opts.Repo,
		Title:      opts.Title,
		ReportPath: path,
		Assignees:  opts.Assignees,
	})
	if err != nil {
		// No partial-success state: discard the report when filing fails.
		if rmErr := os.Remove(path); rmErr != nil {
			log.Warn("failed to remove report after filing error", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("issue filing failed: %w", err)
	}

	result.Issue = issue
	result.Filed = true
	return result, nil
}
