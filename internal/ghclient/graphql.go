package ghclient

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/ossmaint/cleanowners/internal/log"
)

const defaultGraphQLURL = "https://api.github.com/graphql"

// sponsorBatchSize caps the number of aliased lookups per GraphQL request.
const sponsorBatchSize = 50

//go:embed queries/*.graphql
var queryFiles embed.FS

var sponsorItemTemplate *template.Template

func init() {
	data, err := queryFiles.ReadFile("queries/sponsor_item.graphql")
	if err != nil {
		panic(fmt.Sprintf("failed to load sponsor_item.graphql: %v", err))
	}
	sponsorItemTemplate = template.Must(template.New("sponsor_item").Parse(string(data)))
}

// sponsorItem represents the parameters for one aliased lookup in a batch query.
type sponsorItem struct {
	Alias string
	Login string // JSON-quoted login, safe to inline into the query
}

// BuildSponsorQuery builds a GraphQL query checking whether each login has a
// sponsors listing, using aliases so a single request covers the whole batch.
func BuildSponsorQuery(logins []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("query {\n")

	for i, login := range logins {
		quoted, err := json.Marshal(login)
		if err != nil {
			return "", fmt.Errorf("failed to encode login %q: %w", login, err)
		}

		var buf bytes.Buffer
		item := sponsorItem{Alias: fmt.Sprintf("u%d", i), Login: string(quoted)}
		if err := sponsorItemTemplate.Execute(&buf, item); err != nil {
			return "", fmt.Errorf("failed to execute sponsor template for %s: %w", login, err)
		}
		sb.WriteString("  ")
		sb.WriteString(strings.ReplaceAll(strings.TrimRight(buf.String(), "\n"), "\n", "\n  "))
		sb.WriteString("\n")
	}

	sb.WriteString("}")
	return sb.String(), nil
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type sponsorResponse struct {
	Data map[string]*struct {
		HasSponsorsListing bool `json:"hasSponsorsListing"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// HasSponsorsListing reports, for each login, whether the account has a
// GitHub Sponsors listing. Logins that cannot be resolved (deleted accounts,
// bots) are reported as false rather than failing the whole batch.
func (c *Client) HasSponsorsListing(ctx context.Context, logins []string) (map[string]bool, error) {
	result := make(map[string]bool, len(logins))

	for start := 0; start < len(logins); start += sponsorBatchSize {
		end := start + sponsorBatchSize
		if end > len(logins) {
			end = len(logins)
		}
		batch := logins[start:end]

		query, err := BuildSponsorQuery(batch)
		if err != nil {
			return nil, err
		}

		resp, err := c.runGraphQL(ctx, query)
		if err != nil {
			return nil, err
		}

		for i, login := range batch {
			if entry := resp.Data[fmt.Sprintf("u%d", i)]; entry != nil {
				result[login] = entry.HasSponsorsListing
			} else {
				result[login] = false
			}
		}
	}

	return result, nil
}

func (c *Client) runGraphQL(ctx context.Context, query string) (*sponsorResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	log.Debug("running GraphQL query", "bytes", len(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GraphQL request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request failed with status %d", resp.StatusCode)
	}

	var parsed sponsorResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode GraphQL response: %w", err)
	}

	// Partial errors (e.g. a deleted account in the batch) still return data
	// for the remaining aliases.
	for _, e := range parsed.Errors {
		log.Debug("GraphQL partial error", "message", e.Message)
	}
	if parsed.Data == nil && len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL query failed: %s", parsed.Errors[0].Message)
	}

	return &parsed, nil
}
