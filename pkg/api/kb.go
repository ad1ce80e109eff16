package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// SearchKB runs a knowledge-base search. limit <= 0 uses the backend
// default.
func (c *Client) SearchKB(ctx context.Context, query string, limit int) ([]KBSearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Results []KBSearchResult `json:"results"`
	}

	path := pathKBSearch + "?" + params.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("searching knowledge base: %w", err)
	}

	return resp.Results, nil
}

// ListKBDocuments returns the documents visible to the current user.
func (c *Client) ListKBDocuments(ctx context.Context) ([]KBDocument, error) {
	var resp struct {
		Documents []KBDocument `json:"documents"`
	}

	if err := c.do(ctx, http.MethodGet, pathKBDocs, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	return resp.Documents, nil
}
