package report

import (
	"context"
	"fmt"
	"os"

	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
)

// DefaultIssueTitle is used when no title is configured.
const DefaultIssueTitle = "Monthly contributor report"

// FileInput carries the parameters for filing a report as an issue.
type FileInput struct {
	Repo       string // owner/name of the tracking repository
	Title      string
	ReportPath string
	Assignees  []string
}

// Filer creates a tracked issue from a report file.
type Filer interface {
	File(ctx context.Context, in FileInput) (ghclient.IssueRef, error)
}

// GitHubFiler files issues via the GitHub Issues API.
type GitHubFiler struct {
	api ghclient.ReportAPI
}

// NewFiler creates a filer backed by the given API client.
func NewFiler(api ghclient.ReportAPI) *GitHubFiler {
	return &GitHubFiler{api: api}
}

var _ Filer = (*GitHubFiler)(nil)

// File reads the report file and creates an issue with its contents as the
// body, assigned to the given users.
func (f *GitHubFiler) File(ctx context.Context, in FileInput) (ghclient.IssueRef, error) {
	owner, name, err := ghclient.SplitRepo(in.Repo)
	if err != nil {
		return ghclient.IssueRef{}, err
	}

	body, err := os.ReadFile(in.ReportPath)
	if err != nil {
		return ghclient.IssueRef{}, fmt.Errorf("failed to read report file: %w", err)
	}

	title := in.Title
	if title == "" {
		title = DefaultIssueTitle
	}

	ref, err := f.api.CreateIssue(ctx, owner, name, title, string(body), in.Assignees)
	if err != nil {
		return ghclient.IssueRef{}, err
	}

	log.Info("issue filed", "repo", in.Repo, "number", ref.Number, "assignees", in.Assignees)
	return ref, nil
}
