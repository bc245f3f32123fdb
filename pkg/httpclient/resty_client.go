package httpclient

import (
	"context"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// copyChunkSize bounds the buffer used when streaming a raw response body
// into a sink, so the sink sees the body in transport-sized pieces.
const copyChunkSize = 16 * 1024

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
	// stream leaves response bodies unread so GetInto can copy them chunk
	// by chunk into the caller's sink.
	stream *resty.Client
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration) *RestyClient {
	return &RestyClient{
		client: newRestyBaseClient(timeout),
		stream: newRestyBaseClient(timeout).SetDoNotParseResponse(true),
	}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Post performs an HTTP POST request with the given headers and raw body.
func (r *RestyClient) Post(ctx context.Context, url string, headers map[string]string, body []byte) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// GetInto performs an HTTP GET and copies the raw response body into sink as
// it arrives. It returns the status code and any transport or copy error.
func (r *RestyClient) GetInto(ctx context.Context, url string, headers map[string]string, sink io.Writer) (int, error) {
	req := r.stream.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return 0, err
	}

	raw := resp.RawBody()
	if raw == nil {
		return resp.StatusCode(), nil
	}
	defer raw.Close()

	if _, err := io.CopyBuffer(sink, raw, make([]byte, copyChunkSize)); err != nil {
		return resp.StatusCode(), err
	}
	return resp.StatusCode(), nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
