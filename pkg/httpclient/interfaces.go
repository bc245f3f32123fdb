package httpclient

import (
	"context"
	"io"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Post(ctx context.Context, url string, headers map[string]string, body []byte) (Response, error)
	// GetInto performs a GET and streams the response body into sink as the
	// transport delivers it, returning the HTTP status code.
	GetInto(ctx context.Context, url string, headers map[string]string, sink io.Writer) (int, error)
}
