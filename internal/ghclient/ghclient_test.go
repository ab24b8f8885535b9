package ghclient

import (
	"net/http"
	"strings"
	"testing"
)

func TestBuildSponsorQuery(t *testing.T) {
	query, err := BuildSponsorQuery([]string{"alice", "bob"})
	if err != nil {
		t.Fatalf("BuildSponsorQuery failed: %v", err)
	}

	if !strings.HasPrefix(query, "query {") {
		t.Error("query should start with 'query {'")
	}
	if !strings.HasSuffix(strings.TrimSpace(query), "}") {
		t.Error("query should end with '}'")
	}

	// Verify aliases and logins are substituted
	for _, want := range []string{
		`u0: repositoryOwner(login: "alice")`,
		`u1: repositoryOwner(login: "bob")`,
		"hasSponsorsListing",
		"... on User",
		"... on Organization",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query should contain %q, got:\n%s", want, query)
		}
	}
}

func TestBuildSponsorQueryQuotesLogins(t *testing.T) {
	// Logins come from the API, but quoting must still be safe.
	query, err := BuildSponsorQuery([]string{`evil") { x } ("`})
	if err != nil {
		t.Fatalf("BuildSponsorQuery failed: %v", err)
	}
	if !strings.Contains(query, `login: "evil\") { x } (\""`) {
		t.Errorf("login not JSON-quoted:\n%s", query)
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{"acme/widgets", "acme", "widgets", false},
		{"acme/widgets.go", "acme", "widgets.go", false},
		{"no-slash", "", "", true},
		{"/missing-owner", "", "", true},
		{"missing-name/", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, name, err := SplitRepo(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if owner != tt.wantOwner || name != tt.wantName {
				t.Errorf("SplitRepo(%q) = %q, %q; want %q, %q", tt.input, owner, name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestParseRateLimitHeaders(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Remaining", "42")
	resp.Header.Set("X-RateLimit-Reset", "1700000000")

	remaining, resetAt := parseRateLimitHeaders(resp)
	if remaining != 42 {
		t.Errorf("remaining = %d, want 42", remaining)
	}
	if resetAt.Unix() != 1700000000 {
		t.Errorf("resetAt = %v, want unix 1700000000", resetAt)
	}
}

func TestParseRateLimitHeadersMissing(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}

	remaining, resetAt := parseRateLimitHeaders(resp)
	if remaining != -1 {
		t.Errorf("remaining = %d, want -1 when header absent", remaining)
	}
	if !resetAt.IsZero() {
		t.Errorf("resetAt = %v, want zero when header absent", resetAt)
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error when no token is available")
	}
}
