package sweep

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

// Stats aggregates the outcome of a sweep run.
type Stats struct {
	UsersFlagged           int
	PullsOpened            int
	EligibleRepos          int // repos that needed a removal PR
	ReposWithCodeowners    int
	ReposWithoutCodeowners int
	Skipped                int
	Failures               int

	// Removals maps repository full name to the users flagged for removal.
	Removals map[string][]string
	// PullURLs maps repository full name to the opened pull request.
	PullURLs map[string]string
	// MissingCodeowners lists repositories without a CODEOWNERS file.
	MissingCodeowners []string
}

func (s *Stats) record(res *repoResult) {
	if res.skipped {
		s.Skipped++
		return
	}
	if res.missingCodeowners {
		s.ReposWithoutCodeowners++
		s.MissingCodeowners = append(s.MissingCodeowners, res.repo.FullName)
		return
	}

	s.ReposWithCodeowners++
	if len(res.removed) > 0 {
		s.UsersFlagged += len(res.removed)
		s.Removals[res.repo.FullName] = res.removed
	}
	if res.eligible {
		s.EligibleRepos++
	}
	if res.pullURL != "" {
		s.PullsOpened++
		s.PullURLs[res.repo.FullName] = res.pullURL
	}
}

// Summary writes the human-readable run summary. Colors are applied only
// when colorize is set (stdout is a terminal).
func (s *Stats) Summary(w io.Writer, colorize bool) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	if !colorize {
		bold = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}

	fmt.Fprintf(w, "%s\n", bold("Sweep summary"))
	fmt.Fprintf(w, "  Users flagged for removal: %s\n", yellow(s.UsersFlagged))
	fmt.Fprintf(w, "  Pull requests opened:      %s\n", green(s.PullsOpened))
	fmt.Fprintf(w, "  Repos with CODEOWNERS:     %d\n", s.ReposWithCodeowners)
	fmt.Fprintf(w, "  Repos without CODEOWNERS:  %d\n", s.ReposWithoutCodeowners)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  Repos skipped:             %d\n", s.Skipped)
	}
	if s.Failures > 0 {
		fmt.Fprintf(w, "  Repos failed:              %d\n", s.Failures)
	}

	if s.EligibleRepos == 0 {
		fmt.Fprintln(w, "  No pull requests were needed")
	} else {
		pct := float64(s.PullsOpened) / float64(s.EligibleRepos) * 100
		fmt.Fprintf(w, "  %.2f%% of eligible repositories had pull requests opened\n", pct)
	}

	scanned := s.ReposWithCodeowners + s.ReposWithoutCodeowners
	if scanned == 0 {
		fmt.Fprintln(w, "  No repositories were processed")
	} else {
		pct := float64(s.ReposWithCodeowners) / float64(scanned) * 100
		fmt.Fprintf(w, "  %.2f%% of repositories had CODEOWNERS files\n", pct)
	}
}

// Markdown renders the run as a markdown report suitable for an issue body.
func (s *Stats) Markdown(w io.Writer) error {
	fmt.Fprintln(w, "# CODEOWNERS cleanup report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- Users flagged for removal: %d\n", s.UsersFlagged)
	fmt.Fprintf(w, "- Pull requests opened: %d\n", s.PullsOpened)
	fmt.Fprintf(w, "- Repositories with CODEOWNERS: %d\n", s.ReposWithCodeowners)
	fmt.Fprintf(w, "- Repositories without CODEOWNERS: %d\n", s.ReposWithoutCodeowners)

	if len(s.Removals) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Suggested removals")
		fmt.Fprintln(w)
		repos := make([]string, 0, len(s.Removals))
		for repo := range s.Removals {
			repos = append(repos, repo)
		}
		sort.Strings(repos)
		for _, repo := range repos {
			fmt.Fprintf(w, "- **%s**:", repo)
			for _, user := range s.Removals[repo] {
				fmt.Fprintf(w, " @%s", user)
			}
			if url := s.PullURLs[repo]; url != "" {
				fmt.Fprintf(w, " ([pull request](%s))", url)
			}
			fmt.Fprintln(w)
		}
	}

	if len(s.MissingCodeowners) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Repositories missing a CODEOWNERS file")
		fmt.Fprintln(w)
		missing := append([]string(nil), s.MissingCodeowners...)
		sort.Strings(missing)
		for _, repo := range missing {
			fmt.Fprintf(w, "- %s\n", repo)
		}
	}

	return nil
}
