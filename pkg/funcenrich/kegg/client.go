package kegg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cognicore/funcenrich/pkg/funcenrich/internalerr"
	"github.com/cognicore/funcenrich/pkg/funcenrich/store"
)

// DefaultBaseURL is the public KEGG REST endpoint.
const DefaultBaseURL = "https://rest.kegg.jp"

// Client downloads pathway data from a KEGG REST compatible server.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
}

// Get fetches one REST operation, e.g. "link/ko/pathway".
func (c *Client) Get(ctx context.Context, op string) ([]byte, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+op, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("kegg %s: %w", op, internalerr.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kegg %s: status %d", op, resp.StatusCode)
	}
	return body, nil
}

// FetchPathways downloads the ortholog links and pathway names for
// organism and returns them as store records.
func (c *Client) FetchPathways(ctx context.Context, organism string) ([]store.Pathway, error) {
	linkData, err := c.Get(ctx, "link/"+organism+"/pathway")
	if err != nil {
		return nil, err
	}
	links, err := ParseLinks(bytes.NewReader(linkData), organism)
	if err != nil {
		return nil, fmt.Errorf("parse links: %w", err)
	}

	nameData, err := c.Get(ctx, "list/pathway")
	if err != nil {
		return nil, err
	}
	names, err := ParseNames(bytes.NewReader(nameData))
	if err != nil {
		return nil, fmt.Errorf("parse names: %w", err)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("kegg organism %q: %w", organism, internalerr.ErrNotFound)
	}
	return Pathways(links, names), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}
