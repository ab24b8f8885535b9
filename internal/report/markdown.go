package report

import (
	"fmt"
	"io"

	"github.com/ossmaint/cleanowners/internal/daterange"
)

// Write renders the report as markdown suitable for an issue body.
func Write(w io.Writer, rep *Report) error {
	fmt.Fprintf(w, "# Contributor report for %s\n\n", rep.Repo)
	fmt.Fprintf(w, "*Period: %s to %s*\n\n", rep.Range.StartString(), rep.Range.EndString())

	if len(rep.Contributors) == 0 {
		fmt.Fprintln(w, "No contributions were found in this period.")
		return nil
	}

	fmt.Fprintf(w, "- **Contributors:** %d\n", len(rep.Contributors))
	fmt.Fprintf(w, "- **Total commits:** %d\n\n", rep.TotalCommits)

	if rep.SponsorInfo {
		fmt.Fprintln(w, "| Contributor | Commits | First commit | Latest commit | Sponsor |")
		fmt.Fprintln(w, "|-------------|---------|--------------|---------------|---------|")
	} else {
		fmt.Fprintln(w, "| Contributor | Commits | First commit | Latest commit |")
		fmt.Fprintln(w, "|-------------|---------|--------------|---------------|")
	}

	for _, c := range rep.Contributors {
		row := fmt.Sprintf("| %s | %d | %s | %s |",
			c.DisplayName(),
			c.Commits,
			c.FirstCommit.Format(daterange.ISO),
			c.LatestCommit.Format(daterange.ISO),
		)
		if rep.SponsorInfo {
			sponsor := "not sponsorable"
			if c.SponsorURL != "" {
				sponsor = fmt.Sprintf("[sponsor](%s)", c.SponsorURL)
			}
			row += fmt.Sprintf(" %s |", sponsor)
		}
		fmt.Fprintln(w, row)
	}

	return nil
}
