package config

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	global := &Config{
		Organization: "global-org",
		ExemptRepos:  []string{"global-org/skip"},
		Report: &ReportConfig{
			Repository: "global-org/repo",
			Assignees:  []string{"global-maintainer"},
		},
	}
	local := &Config{
		Organization: "local-org",
		Report: &ReportConfig{
			Assignees: []string{"local-maintainer"},
		},
	}

	merged := Merge(global, local)

	if merged.Organization != "local-org" {
		t.Errorf("Organization = %q, want local-org", merged.Organization)
	}
	if !reflect.DeepEqual(merged.ExemptRepos, []string{"global-org/skip"}) {
		t.Errorf("ExemptRepos = %v, want global value preserved", merged.ExemptRepos)
	}
	if merged.Report.Repository != "global-org/repo" {
		t.Errorf("Report.Repository = %q, want global value preserved", merged.Report.Repository)
	}
	if !reflect.DeepEqual(merged.Report.Assignees, []string{"local-maintainer"}) {
		t.Errorf("Report.Assignees = %v, want local override", merged.Report.Assignees)
	}
}

func TestMergeNilSections(t *testing.T) {
	merged := Merge(&Config{}, &Config{})
	if merged.Report != nil {
		t.Error("Report section should stay nil when unset on both sides")
	}
	if merged.Sweep != nil {
		t.Error("Sweep section should stay nil when unset on both sides")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ORGANIZATION", "env-org")
	t.Setenv("REPOSITORY", "env-org/a, env-org/b")
	t.Setenv("EXEMPT_REPOS", "env-org/skip")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("ISSUE_TITLE", "Monthly contributor report")
	t.Setenv("ASSIGNEES", "maintainer")
	t.Setenv("SPONSOR_INFO", "false")
	t.Setenv("COMMIT_MESSAGE", "Tidy CODEOWNERS")

	cfg := &Config{Organization: "file-org"}
	cfg.ApplyEnv()

	if cfg.Organization != "env-org" {
		t.Errorf("Organization = %q, want env-org", cfg.Organization)
	}
	if !reflect.DeepEqual(cfg.Repositories, []string{"env-org/a", "env-org/b"}) {
		t.Errorf("Repositories = %v, want parsed comma list", cfg.Repositories)
	}
	if !cfg.DryRun {
		t.Error("DryRun should be true")
	}
	if cfg.Report == nil || cfg.Report.Title != "Monthly contributor report" {
		t.Errorf("Report.Title not applied: %+v", cfg.Report)
	}
	if cfg.ReportSponsorInfo() {
		t.Error("SPONSOR_INFO=false should disable sponsor info")
	}
	if cfg.Sweep == nil || cfg.Sweep.CommitMessage != "Tidy CODEOWNERS" {
		t.Errorf("Sweep.CommitMessage not applied: %+v", cfg.Sweep)
	}
}

func TestApplyEnvLeavesConfigAlone(t *testing.T) {
	for _, name := range []string{"ORGANIZATION", "REPOSITORY", "EXEMPT_REPOS", "DRY_RUN", "ISSUE_TITLE", "ASSIGNEES", "SPONSOR_INFO", "PR_TITLE", "PR_BODY", "COMMIT_MESSAGE", "ISSUE_REPORT"} {
		t.Setenv(name, "")
	}

	cfg := &Config{Organization: "file-org"}
	cfg.ApplyEnv()

	if cfg.Organization != "file-org" {
		t.Errorf("Organization = %q, want file-org with no env set", cfg.Organization)
	}
	if cfg.Report != nil || cfg.Sweep != nil {
		t.Error("sections should stay nil when no env vars are set")
	}
}

func TestReportSponsorInfoDefault(t *testing.T) {
	cfg := &Config{}
	if !cfg.ReportSponsorInfo() {
		t.Error("sponsor info should default to true")
	}

	off := false
	cfg.Report = &ReportConfig{SponsorInfo: &off}
	if cfg.ReportSponsorInfo() {
		t.Error("explicit false should win over the default")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := splitList(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToYAML(t *testing.T) {
	cfg := &Config{Organization: "acme"}
	out, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Error("expected YAML output")
	}
}
