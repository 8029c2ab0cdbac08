package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin HTTP client for the catalog service's three read
// endpoints. Each endpoint accepts a lastFetched query parameter and returns
// the records changed since that instant; an empty JSON array (never null)
// means nothing new.
//
// The lastFetched value must be a real past instant in ISO-8601 form. The
// service validates both format and range, so "distant past" sentinels are
// rejected. Callers that want full history use the Unix epoch.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client. baseURL is the service root
// (e.g. https://catalog.example.com/api/v1). timeout bounds each request;
// zero selects a 30 second default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchGroups returns the groups changed since the given instant.
func (c *Client) FetchGroups(ctx context.Context, since time.Time) ([]GroupRecord, error) {
	var records []GroupRecord
	if err := c.get(ctx, "/groups", since, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []GroupRecord{}
	}
	return records, nil
}

// FetchItems returns the items changed since the given instant.
func (c *Client) FetchItems(ctx context.Context, since time.Time) ([]ItemRecord, error) {
	var records []ItemRecord
	if err := c.get(ctx, "/items", since, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []ItemRecord{}
	}
	return records, nil
}

// FetchComponents returns the item components changed since the given
// instant.
func (c *Client) FetchComponents(ctx context.Context, since time.Time) ([]ComponentRecord, error) {
	var records []ComponentRecord
	if err := c.get(ctx, "/item-components", since, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []ComponentRecord{}
	}
	return records, nil
}

// get performs one GET request and decodes the JSON array response. All
// failures other than context cancellation come back as *NetworkError.
func (c *Client) get(ctx context.Context, path string, since time.Time, result interface{}) error {
	endpoint := c.baseURL + path
	query := url.Values{}
	query.Set("lastFetched", since.UTC().Format(time.RFC3339))
	endpoint += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify("GET "+path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify("GET "+path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NetworkError{
			Kind: NetworkErrorOther,
			Op:   "GET " + path,
			Err: fmt.Errorf("unexpected status %d: %s",
				resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &NetworkError{
			Kind: NetworkErrorOther,
			Op:   "GET " + path,
			Err:  fmt.Errorf("malformed response body: %w", err),
		}
	}

	return nil
}
