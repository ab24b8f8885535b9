// Package report builds monthly contributor reports and files them as issues.
package report

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ossmaint/cleanowners/internal/daterange"
	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
)

// DefaultOutputPath is where the generated report is written when no path
// is configured.
const DefaultOutputPath = "contributors.md"

// Contributor aggregates one author's activity within the report window.
type Contributor struct {
	Login        string // empty when the author has no GitHub account
	Name         string
	Commits      int
	FirstCommit  time.Time
	LatestCommit time.Time
	SponsorURL   string // set when the account has a sponsors listing
}

// DisplayName returns the login when known, otherwise the git author name.
func (c Contributor) DisplayName() string {
	if c.Login != "" {
		return "@" + c.Login
	}
	return c.Name
}

// Report is the assembled contributor report for one repository and month.
type Report struct {
	Repo         string
	Range        daterange.Range
	SponsorInfo  bool
	Contributors []Contributor
	TotalCommits int
}

// GenerateInput carries the parameters for report generation.
type GenerateInput struct {
	Repo        string // owner/name
	Range       daterange.Range
	SponsorInfo bool
	OutputPath  string // defaults to DefaultOutputPath
}

// Generator produces a contributor report file and returns its path.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (string, error)
}

// GitHubGenerator builds reports from the GitHub API.
type GitHubGenerator struct {
	api ghclient.ReportAPI
}

// NewGenerator creates a generator backed by the given API client.
func NewGenerator(api ghclient.ReportAPI) *GitHubGenerator {
	return &GitHubGenerator{api: api}
}

var _ Generator = (*GitHubGenerator)(nil)

// Generate fetches commit activity for the range, aggregates it per
// contributor, and writes the rendered markdown report to disk.
func (g *GitHubGenerator) Generate(ctx context.Context, in GenerateInput) (string, error) {
	owner, name, err := ghclient.SplitRepo(in.Repo)
	if err != nil {
		return "", err
	}

	rep, err := g.build(ctx, owner, name, in)
	if err != nil {
		return "", err
	}

	path := in.OutputPath
	if path == "" {
		path = DefaultOutputPath
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := Write(f, rep); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	log.Info("report generated", "repo", in.Repo, "contributors", len(rep.Contributors), "path", path)
	return path, nil
}

func (g *GitHubGenerator) build(ctx context.Context, owner, name string, in GenerateInput) (*Report, error) {
	commits, err := g.api.ListCommits(ctx, owner, name, in.Range.Start, in.Range.EndOfDay())
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Repo:         in.Repo,
		Range:        in.Range,
		SponsorInfo:  in.SponsorInfo,
		Contributors: aggregate(commits),
		TotalCommits: len(commits),
	}

	if in.SponsorInfo && len(rep.Contributors) > 0 {
		if err := g.attachSponsorInfo(ctx, rep); err != nil {
			return nil, err
		}
	}

	return rep, nil
}

// aggregate groups commits by author. Commits without a resolvable login are
// keyed by git author name so drive-by contributors still appear.
func aggregate(commits []ghclient.Commit) []Contributor {
	byKey := make(map[string]*Contributor)

	for _, c := range commits {
		key := c.Login
		if key == "" {
			key = "name:" + c.AuthorName
		}

		contrib, ok := byKey[key]
		if !ok {
			contrib = &Contributor{
				Login:        c.Login,
				Name:         c.AuthorName,
				FirstCommit:  c.Date,
				LatestCommit: c.Date,
			}
			byKey[key] = contrib
		}

		contrib.Commits++
		if c.Date.Before(contrib.FirstCommit) {
			contrib.FirstCommit = c.Date
		}
		if c.Date.After(contrib.LatestCommit) {
			contrib.LatestCommit = c.Date
		}
	}

	contributors := make([]Contributor, 0, len(byKey))
	for _, c := range byKey {
		contributors = append(contributors, *c)
	}

	// Most active first; ties broken by display name for stable output.
	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Commits != contributors[j].Commits {
			return contributors[i].Commits > contributors[j].Commits
		}
		return contributors[i].DisplayName() < contributors[j].DisplayName()
	})

	return contributors
}

func (g *GitHubGenerator) attachSponsorInfo(ctx context.Context, rep *Report) error {
	var logins []string
	for _, c := range rep.Contributors {
		if c.Login != "" {
			logins = append(logins, c.Login)
		}
	}
	if len(logins) == 0 {
		return nil
	}

	listings, err := g.api.HasSponsorsListing(ctx, logins)
	if err != nil {
		return fmt.Errorf("failed to fetch sponsor info: %w", err)
	}

	for i := range rep.Contributors {
		login := rep.Contributors[i].Login
		if login != "" && listings[login] {
			rep.Contributors[i].SponsorURL = "https://github.com/sponsors/" + login
		}
	}
	return nil
}
