// Package sweep suggests removal of non-organization members from
// CODEOWNERS files by opening pull requests against the affected repos.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ossmaint/cleanowners/internal/codeowners"
	"github.com/ossmaint/cleanowners/internal/ghclient"
	"github.com/ossmaint/cleanowners/internal/log"
	"golang.org/x/sync/errgroup"
)

// Default PR text, used when the config doesn't override it.
const (
	DefaultPRTitle       = "Clean up CODEOWNERS file"
	DefaultPRBody        = "This pull request removes users from the CODEOWNERS file who are no longer members of the organization."
	DefaultCommitMessage = "Remove users no longer in the organization from CODEOWNERS"
)

// defaultWorkers bounds concurrent repository processing.
const defaultWorkers = 5

// Options configures a sweep run.
type Options struct {
	Organization string   // scan every repo of this org when Repositories is empty
	Repositories []string // explicit owner/name list; overrides org scanning
	ExemptRepos  []string // full names to skip
	DryRun       bool     // report only, no branches or pull requests

	PRTitle       string
	PRBody        string
	CommitMessage string
	Workers       int
}

// Engine runs the CODEOWNERS sweep against the GitHub API.
type Engine struct {
	api  ghclient.SweepAPI
	opts Options
}

// New creates a sweep engine. Zero-valued option fields fall back to the
// package defaults.
func New(api ghclient.SweepAPI, opts Options) *Engine {
	if opts.PRTitle == "" {
		opts.PRTitle = DefaultPRTitle
	}
	if opts.PRBody == "" {
		opts.PRBody = DefaultPRBody
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = DefaultCommitMessage
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	return &Engine{api: api, opts: opts}
}

// Run sweeps every targeted repository and returns the aggregated stats.
// Per-repository failures are logged and counted, not fatal; only listing
// the targets or context cancellation aborts the run.
func (e *Engine) Run(ctx context.Context) (*Stats, error) {
	repos, err := e.targetRepos(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Removals: make(map[string][]string),
		PullURLs: make(map[string]string),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	var swept int

	exempt := make(map[string]bool, len(e.opts.ExemptRepos))
	for _, r := range e.opts.ExemptRepos {
		exempt[r] = true
	}

	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := e.processRepo(gctx, repo, exempt)
			if err != nil {
				log.Warn("repository sweep failed", "repo", repo.FullName, "error", err)
				mu.Lock()
				stats.Failures++
				swept++
				log.Progress("swept %d/%d repositories", swept, len(repos))
				mu.Unlock()
				return nil
			}

			mu.Lock()
			stats.record(res)
			swept++
			log.Progress("swept %d/%d repositories", swept, len(repos))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.ProgressDone()

	return stats, nil
}

// targetRepos resolves the repositories to sweep: the explicit list when
// given, otherwise every repository of the organization.
func (e *Engine) targetRepos(ctx context.Context) ([]ghclient.Repo, error) {
	if len(e.opts.Repositories) > 0 {
		repos := make([]ghclient.Repo, 0, len(e.opts.Repositories))
		for _, fullName := range e.opts.Repositories {
			owner, name, err := ghclient.SplitRepo(fullName)
			if err != nil {
				return nil, err
			}
			repo, err := e.api.GetRepo(ctx, owner, name)
			if err != nil {
				return nil, err
			}
			repos = append(repos, repo)
		}
		return repos, nil
	}

	if e.opts.Organization == "" {
		return nil, errors.New("no organization or repository list configured")
	}
	return e.api.ListOrgRepos(ctx, e.opts.Organization)
}

// repoResult captures what happened for a single repository.
type repoResult struct {
	repo              ghclient.Repo
	skipped           bool
	missingCodeowners bool
	removed           []string
	pullURL           string
	eligible          bool // had removals, so a PR was warranted
}

func (e *Engine) processRepo(ctx context.Context, repo ghclient.Repo, exempt map[string]bool) (*repoResult, error) {
	if exempt[repo.FullName] {
		log.Info("skipping exempt repository", "repo", repo.FullName)
		return &repoResult{repo: repo, skipped: true}, nil
	}
	if repo.Archived {
		log.Info("skipping archived repository", "repo", repo.FullName)
		return &repoResult{repo: repo, skipped: true}, nil
	}

	file, err := e.findCodeowners(ctx, repo)
	if err != nil {
		return nil, err
	}
	if file == nil {
		log.Info("no CODEOWNERS file", "repo", repo.FullName)
		return &repoResult{repo: repo, missingCodeowners: true}, nil
	}

	org := e.opts.Organization
	if org == "" {
		org = repo.Owner
	}

	removed, err := e.staleOwners(ctx, org, repo, file)
	if err != nil {
		return nil, err
	}

	result := &repoResult{repo: repo, removed: removed}
	if len(removed) == 0 {
		return result, nil
	}
	result.eligible = true

	if e.opts.DryRun {
		log.Info("dry run, skipping pull request", "repo", repo.FullName, "users", removed)
		return result, nil
	}

	url, err := e.openRemovalPull(ctx, repo, file, removed)
	if err != nil {
		// A PR failure (usually missing write permission) doesn't
		// abort the sweep.
		log.Warn("failed to open pull request", "repo", repo.FullName, "error", err)
		return result, nil
	}
	result.pullURL = url
	return result, nil
}

// findCodeowners returns the first non-empty CODEOWNERS file, or nil when
// the repository has none.
func (e *Engine) findCodeowners(ctx context.Context, repo ghclient.Repo) (*ghclient.File, error) {
	for _, path := range codeowners.Paths {
		file, err := e.api.GetFile(ctx, repo.Owner, repo.Name, path)
		if errors.Is(err, ghclient.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return file, nil
	}
	return nil, nil
}

// staleOwners returns the CODEOWNERS users who are not members of org.
func (e *Engine) staleOwners(ctx context.Context, org string, repo ghclient.Repo, file *ghclient.File) ([]string, error) {
	usernames := codeowners.Dedupe(codeowners.Usernames(file.Content, false))

	var stale []string
	for _, username := range usernames {
		member, err := e.api.IsOrgMember(ctx, org, username)
		if err != nil {
			log.Warn("membership check failed, keeping user", "org", org, "user", username, "error", err)
			continue
		}
		if !member {
			log.Info("user is not an organization member", "org", org, "user", username, "repo", repo.FullName)
			stale = append(stale, username)
		}
	}
	return stale, nil
}

// openRemovalPull rewrites the CODEOWNERS file without the stale users on a
// fresh branch and opens a pull request against the default branch.
func (e *Engine) openRemovalPull(ctx context.Context, repo ghclient.Repo, file *ghclient.File, removed []string) (string, error) {
	content := file.Content
	for _, username := range removed {
		content = codeowners.Remove(content, username)
	}

	if len(codeowners.Usernames(content, true)) == 0 {
		log.Warn("all owners removed from CODEOWNERS", "repo", repo.FullName)
	}

	head, err := e.api.BranchHead(ctx, repo.Owner, repo.Name, repo.DefaultBranch)
	if err != nil {
		return "", err
	}

	branch := fmt.Sprintf("codeowners-%s", uuid.New().String())
	if err := e.api.CreateBranch(ctx, repo.Owner, repo.Name, branch, head); err != nil {
		return "", err
	}

	if err := e.api.UpdateFile(ctx, repo.Owner, repo.Name, file.Path, e.opts.CommitMessage, branch, content, file.SHA); err != nil {
		return "", err
	}

	return e.api.CreatePull(ctx, repo.Owner, repo.Name, e.opts.PRTitle, e.opts.PRBody, branch, repo.DefaultBranch)
}
