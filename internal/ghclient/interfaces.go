// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"
	"time"
)

// ReportAPI is the GitHub surface consumed by the contributor report
// pipeline. The interface enables substituting fakes in unit tests.
type ReportAPI interface {
	// ListCommits returns commits on the default branch within [since, until].
	ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]Commit, error)

	// HasSponsorsListing reports which logins have a GitHub Sponsors listing.
	HasSponsorsListing(ctx context.Context, logins []string) (map[string]bool, error)

	// CreateIssue files a new issue and returns its number and URL.
	CreateIssue(ctx context.Context, owner, repo, title, body string, assignees []string) (IssueRef, error)
}

// SweepAPI is the GitHub surface consumed by the CODEOWNERS sweep engine.
type SweepAPI interface {
	ListOrgRepos(ctx context.Context, org string) ([]Repo, error)
	GetRepo(ctx context.Context, owner, name string) (Repo, error)
	IsOrgMember(ctx context.Context, org, user string) (bool, error)
	GetFile(ctx context.Context, owner, repo, path string) (*File, error)
	BranchHead(ctx context.Context, owner, repo, branch string) (string, error)
	CreateBranch(ctx context.Context, owner, repo, name, sha string) error
	UpdateFile(ctx context.Context, owner, repo, path, message, branch string, content []byte, sha string) error
	CreatePull(ctx context.Context, owner, repo, title, body, head, base string) (string, error)
}

// Ensure Client implements both API surfaces.
var (
	_ ReportAPI = (*Client)(nil)
	_ SweepAPI  = (*Client)(nil)
)
