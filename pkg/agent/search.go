package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

const defaultResultsPerQuery = 5

// SearchResult is one web hit handed back to the model.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher is the web-search tool agents expose to the model.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// GoogleSearch queries a Programmable Search Engine.
type GoogleSearch struct {
	service  *customsearch.Service
	engineID string
	num      int64
}

func NewGoogleSearch(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*GoogleSearch, error) {
	if apiKey == "" || engineID == "" {
		return nil, errors.New("search api key and engine id are required")
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	return &GoogleSearch{
		service:  service,
		engineID: engineID,
		num:      defaultResultsPerQuery,
	}, nil
}

func (g *GoogleSearch) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty search query")
	}

	res, err := g.service.Cse.List().
		Cx(g.engineID).
		Q(query).
		Num(g.num).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	results := make([]SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
