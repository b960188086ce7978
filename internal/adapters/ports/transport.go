package ports

import (
	"context"
	"net/http"
)

// Transport is the synchronous POST collaborator the protocol layer sends
// signed envelopes through. It returns the raw reply body or a transport
// error; it never retries, since a signed financial request is not safe to
// blindly replay. Timeouts and cancellation are the transport's concern.
type Transport interface {
	Post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error)
}

// HTTPClient is a minimal HTTP client interface for making requests
// This allows for easy mocking and testing of transports
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
