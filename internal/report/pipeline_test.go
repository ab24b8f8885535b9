package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ossmaint/cleanowners/internal/ghclient"
)

type fakeGenerator struct {
	path    string
	err     error
	gotIn   GenerateInput
	calls   int
	writeTo string // when set, create a real file at this path
}

func (f *fakeGenerator) Generate(_ context.Context, in GenerateInput) (string, error) {
	f.calls++
	f.gotIn = in
	if f.err != nil {
		return "", f.err
	}
	if f.writeTo != "" {
		if err := os.WriteFile(f.writeTo, []byte("report body"), 0600); err != nil {
			return "", err
		}
		return f.writeTo, nil
	}
	return f.path, nil
}

type fakeFiler struct {
	ref   ghclient.IssueRef
	err   error
	gotIn FileInput
	calls int
}

func (f *fakeFiler) File(_ context.Context, in FileInput) (ghclient.IssueRef, error) {
	f.calls++
	f.gotIn = in
	if f.err != nil {
		return ghclient.IssueRef{}, f.err
	}
	return f.ref, nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
}

func TestPipelineRun(t *testing.T) {
	gen := &fakeGenerator{path: "contributors.md"}
	filer := &fakeFiler{ref: ghclient.IssueRef{Number: 42, URL: "https://github.com/acme/widgets/issues/42"}}
	p := &Pipeline{Generator: gen, Filer: filer, Now: fixedNow}

	result, err := p.Run(context.Background(), RunOptions{
		Repo:        "acme/widgets",
		SponsorInfo: true,
		Assignees:   []string{"maintainer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Range.StartString(); got != "2024-02-01" {
		t.Errorf("Range.Start = %s, want 2024-02-01", got)
	}
	if got := result.Range.EndString(); got != "2024-02-29" {
		t.Errorf("Range.End = %s, want 2024-02-29", got)
	}
	if !result.Filed {
		t.Error("expected result.Filed to be true")
	}
	if result.Issue.Number != 42 {
		t.Errorf("Issue.Number = %d, want 42", result.Issue.Number)
	}

	if !gen.gotIn.SponsorInfo {
		t.Error("sponsor info flag not forwarded to generator")
	}
	if filer.gotIn.ReportPath != "contributors.md" {
		t.Errorf("filer got path %q, want contributors.md", filer.gotIn.ReportPath)
	}
	if len(filer.gotIn.Assignees) != 1 || filer.gotIn.Assignees[0] != "maintainer" {
		t.Errorf("filer got assignees %v, want [maintainer]", filer.gotIn.Assignees)
	}
}

func TestPipelineRunExplicitRefDate(t *testing.T) {
	gen := &fakeGenerator{path: "contributors.md"}
	filer := &fakeFiler{}
	p := &Pipeline{Generator: gen, Filer: filer}

	result, err := p.Run(context.Background(), RunOptions{
		Repo:    "acme/widgets",
		RefDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Range.StartString(); got != "2023-12-01" {
		t.Errorf("Range.Start = %s, want 2023-12-01", got)
	}
	if got := result.Range.EndString(); got != "2023-12-31" {
		t.Errorf("Range.End = %s, want 2023-12-31", got)
	}
}

func TestPipelineGeneratorFailure(t *testing.T) {
	genErr := errors.New("api unavailable")
	gen := &fakeGenerator{err: genErr}
	filer := &fakeFiler{}
	p := &Pipeline{Generator: gen, Filer: filer, Now: fixedNow}

	_, err := p.Run(context.Background(), RunOptions{Repo: "acme/widgets"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, genErr) {
		t.Errorf("error %v does not wrap generator error", err)
	}
	if filer.calls != 0 {
		t.Errorf("filer called %d times after generation failure, want 0", filer.calls)
	}
}

func TestPipelineFilingFailureDiscardsReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "contributors.md")
	gen := &fakeGenerator{writeTo: reportPath}
	filer := &fakeFiler{err: errors.New("forbidden")}
	p := &Pipeline{Generator: gen, Filer: filer, Now: fixedNow}

	_, err := p.Run(context.Background(), RunOptions{Repo: "acme/widgets"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if _, statErr := os.Stat(reportPath); !os.IsNotExist(statErr) {
		t.Error("report file should be removed when issue filing fails")
	}
}

func TestPipelineDryRun(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "contributors.md")
	gen := &fakeGenerator{writeTo: reportPath}
	filer := &fakeFiler{}
	p := &Pipeline{Generator: gen, Filer: filer, Now: fixedNow}

	result, err := p.Run(context.Background(), RunOptions{Repo: "acme/widgets", DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Filed {
		t.Error("dry run should not file an issue")
	}
	if filer.calls != 0 {
		t.Errorf("filer called %d times in dry run, want 0", filer.calls)
	}
	if _, statErr := os.Stat(reportPath); statErr != nil {
		t.Error("dry run should keep the generated report file")
	}
}

func TestPipelineMissingRepo(t *testing.T) {
	p := &Pipeline{Generator: &fakeGenerator{}, Filer: &fakeFiler{}, Now: fixedNow}
	if _, err := p.Run(context.Background(), RunOptions{}); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
