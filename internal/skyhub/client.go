package skyhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bittools/skyhub-importer/internal/domain"
)

// maxResponseSize bounds how much of a marketplace response is read (10MB).
const maxResponseSize = 10 * 1024 * 1024

// Client is the marketplace gateway. It fetches order documents from the
// SkyHub API; the importer treats the result as an opaque payload.
type Client struct {
	baseURL    string
	userEmail  string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, userEmail, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		userEmail:  userEmail,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// FetchOrder returns the order document for a marketplace reference code.
// A reference unknown to the marketplace returns (nil, nil).
func (c *Client) FetchOrder(ctx context.Context, referenceCode string) (domain.Payload, error) {
	endpoint := c.baseURL + "/orders/" + url.PathEscape(referenceCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-User-Email", c.userEmail)
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", referenceCode, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("skyhub returned status %d for order %s", resp.StatusCode, referenceCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	var payload domain.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return payload, nil
}
