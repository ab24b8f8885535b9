package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/ossmaint/cleanowners/internal/log"
	"golang.org/x/oauth2"
)

// ErrRateLimited is returned when the GitHub API rate limit is exhausted.
var ErrRateLimited = errors.New("github API rate limit exceeded")

// ErrNotFound is returned when a requested file or resource does not exist.
var ErrNotFound = errors.New("not found")

// RateLimitLowWatermark is the remaining-request threshold below which
// rate limit warnings are logged.
const RateLimitLowWatermark = 100

// rateLimitTransport wraps an http.RoundTripper to surface GitHub rate limits
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, resetAt := parseRateLimitHeaders(resp)

	if remaining >= 0 && remaining <= RateLimitLowWatermark {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	// 403 with an exhausted quota or 429 both mean we should stop.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			return nil, ErrRateLimited
		}
	}

	return resp, err
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining int, resetAt time.Time) {
	remaining = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, resetAt
}

// Client wraps the GitHub API client.
type Client struct {
	client *gh.Client
	// token is intentionally unexported. NEVER add String(), MarshalJSON(),
	// or any method that could expose this value in logs or serialized output.
	token string

	graphqlURL string
	httpClient *http.Client
}

// NewClient creates a new GitHub client using a personal access token.
// Tokens are only read from the GITHUB_TOKEN environment variable when not
// passed explicitly.
func NewClient(token string) (*Client, error) {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided; set the GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Transport = &rateLimitTransport{base: tc.Transport}

	return &Client{
		client:     gh.NewClient(tc),
		token:      token,
		graphqlURL: defaultGraphQLURL,
		httpClient: tc,
	}, nil
}

// Repo is the repository metadata the sweep engine operates on.
type Repo struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	Archived      bool
}

// File is a file fetched from a repository's default branch.
type File struct {
	Path    string
	Content []byte
	SHA     string
}

// Commit is a single commit attributed to a contributor.
type Commit struct {
	SHA        string
	Login      string // GitHub login; empty when the author has no account
	AuthorName string // git author name, used as a fallback identity
	Date       time.Time
}

// IssueRef identifies a created issue.
type IssueRef struct {
	Number int
	URL    string
}

// SplitRepo splits an "owner/name" identifier into its parts.
func SplitRepo(fullName string) (owner, name string, err error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", fullName)
	}
	return parts[0], parts[1], nil
}

// ListOrgRepos returns all repositories of an organization.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]Repo, error) {
	var repos []Repo
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}
		for _, r := range page {
			repos = append(repos, toRepo(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		log.Debug("fetching repository page", "org", org, "page", resp.NextPage)
	}

	return repos, nil
}

// GetRepo returns metadata for a single repository.
func (c *Client) GetRepo(ctx context.Context, owner, name string) (Repo, error) {
	r, _, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return Repo{}, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	return toRepo(r), nil
}

func toRepo(r *gh.Repository) Repo {
	return Repo{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		DefaultBranch: r.GetDefaultBranch(),
		Archived:      r.GetArchived(),
	}
}

// IsOrgMember reports whether user is a member of org.
func (c *Client) IsOrgMember(ctx context.Context, org, user string) (bool, error) {
	member, _, err := c.client.Organizations.IsMember(ctx, org, user)
	if err != nil {
		return false, fmt.Errorf("failed to check membership of %s in %s: %w", user, org, err)
	}
	return member, nil
}

// GetFile fetches a file from the repository's default branch. Returns
// ErrNotFound when the path does not exist or is empty.
func (c *Client) GetFile(ctx context.Context, owner, repo, path string) (*File, error) {
	fc, _, resp, err := c.client.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch %s from %s/%s: %w", path, owner, repo, err)
	}
	if fc == nil {
		// Path exists but is a directory.
		return nil, ErrNotFound
	}

	content, err := fc.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from %s/%s: %w", path, owner, repo, err)
	}
	if len(content) == 0 {
		return nil, ErrNotFound
	}

	return &File{
		Path:    path,
		Content: []byte(content),
		SHA:     fc.GetSHA(),
	}, nil
}

// BranchHead returns the commit SHA at the tip of a branch.
func (c *Client) BranchHead(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := c.client.Git.GetRef(ctx, owner, repo, "refs/heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch %s in %s/%s: %w", branch, owner, repo, err)
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateBranch creates a new branch pointing at the given commit SHA.
func (c *Client) CreateBranch(ctx context.Context, owner, repo, name, sha string) error {
	_, _, err := c.client.Git.CreateRef(ctx, owner, repo, &gh.Reference{
		Ref:    gh.String("refs/heads/" + name),
		Object: &gh.GitObject{SHA: gh.String(sha)},
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s in %s/%s: %w", name, owner, repo, err)
	}
	return nil
}

// UpdateFile commits new file contents to a branch.
func (c *Client) UpdateFile(ctx context.Context, owner, repo, path, message, branch string, content []byte, sha string) error {
	_, _, err := c.client.Repositories.UpdateFile(ctx, owner, repo, path, &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
		SHA:     gh.String(sha),
		Branch:  gh.String(branch),
	})
	if err != nil {
		return fmt.Errorf("failed to update %s in %s/%s: %w", path, owner, repo, err)
	}
	return nil
}

// CreatePull opens a pull request and returns its URL.
func (c *Client) CreatePull(ctx context.Context, owner, repo, title, body, head, base string) (string, error) {
	pr, _, err := c.client.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
		Head:  gh.String(head),
		Base:  gh.String(base),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create pull request in %s/%s: %w", owner, repo, err)
	}
	return pr.GetHTMLURL(), nil
}

// ListCommits returns all commits on the default branch within [since, until].
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]Commit, error) {
	var commits []Commit
	opts := &gh.CommitsListOptions{
		Since:       since,
		Until:       until,
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		page, resp, err := c.client.Repositories.ListCommits(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s/%s: %w", owner, repo, err)
		}
		for _, rc := range page {
			commits = append(commits, Commit{
				SHA:        rc.GetSHA(),
				Login:      rc.GetAuthor().GetLogin(),
				AuthorName: rc.GetCommit().GetAuthor().GetName(),
				Date:       rc.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		log.Debug("fetching commit page", "repo", owner+"/"+repo, "page", resp.NextPage)
	}

	return commits, nil
}

// CreateIssue files a new issue and returns its number and URL.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string, assignees []string) (IssueRef, error) {
	req := &gh.IssueRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
	}
	if len(assignees) > 0 {
		req.Assignees = &assignees
	}

	issue, _, err := c.client.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return IssueRef{}, fmt.Errorf("failed to create issue in %s/%s: %w", owner, repo, err)
	}
	return IssueRef{Number: issue.GetNumber(), URL: issue.GetHTMLURL()}, nil
}
