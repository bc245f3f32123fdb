package chroma

import (
	"context"
	"fmt"

	"github.com/vectorops/chromactl/pkg/httpclient"
)

// Collection is the server's collection record. Empty fields mean the server
// omitted them (or returned them with a non-string type).
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client issues collection operations against a Chroma-compatible server.
// Operations are synchronous and independent; transport failures surface as
// false or empty results, never as returned errors.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     Logger
}

// NewClient builds a client for the given base URL. The base URL is used as
// supplied, without trailing-slash normalization. A nil logger is replaced
// with a no-op logger.
func NewClient(baseURL string, http httpclient.Client, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
		log:     ensureLogger(log),
	}
}

// Heartbeat probes {base}/heartbeat and reports whether the transport
// exchanged a response. The HTTP status code is deliberately ignored: an
// error status still means the server is up and answering.
func (c *Client) Heartbeat(ctx context.Context) bool {
	url := fmt.Sprintf("%s/heartbeat", c.baseURL)

	if _, err := c.http.Get(ctx, url, nil); err != nil {
		c.log.ErrorObj("heartbeat failed", "heartbeat_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return false
	}

	c.log.InfoObj("heartbeat ok", "heartbeat_url", url)
	return true
}

// CreateCollection posts {"name":"<name>"} to {base}/api/v1/collections and
// reports transport-level success, status-code-agnostic like Heartbeat.
//
// The payload and URL are built by plain interpolation: names containing
// quotes, backslashes, or slashes produce malformed requests.
func (c *Client) CreateCollection(ctx context.Context, name string) bool {
	url := fmt.Sprintf("%s/api/v1/collections", c.baseURL)
	payload := fmt.Sprintf(`{"name":"%s"}`, name)
	headers := map[string]string{"Content-Type": "application/json"}

	if _, err := c.http.Post(ctx, url, headers, []byte(payload)); err != nil {
		c.log.ErrorObj("create collection failed", "create_error", map[string]any{
			"url":        url,
			"collection": name,
			"error":      err.Error(),
		})
		return false
	}

	c.log.InfoObj("collection create request sent", "collection_name", name)
	return true
}

// GetCollection fetches {base}/api/v1/collections/{name} and returns the
// accumulated response body. The accumulator is never nil; zero length means
// no bytes were received and the caller should treat the collection as
// not found or unreachable. The body is not parsed here — see
// ParseCollectionResponse — so callers can tell "no bytes" apart from
// "bytes that failed to decode".
func (c *Client) GetCollection(ctx context.Context, name string) *httpclient.Accumulator {
	acc := httpclient.NewAccumulator()
	url := fmt.Sprintf("%s/api/v1/collections/%s", c.baseURL, name)

	if _, err := c.http.GetInto(ctx, url, nil, acc); err != nil {
		c.log.ErrorObj("get collection failed", "get_error", map[string]any{
			"url":        url,
			"collection": name,
			"error":      err.Error(),
		})
		return acc
	}

	c.log.DebugObj("collection response received", "get_response", map[string]any{
		"collection": name,
		"bytes":      acc.Len(),
	})
	return acc
}
