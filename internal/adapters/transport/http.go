package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kevin07696/vpos-gateway/internal/adapters/ports"
)

// httpTransport implements the Transport port over plain HTTP POST.
// It performs exactly one attempt per call; transport failures propagate to
// the protocol layer unchanged.
type httpTransport struct {
	client ports.HTTPClient
	logger *zap.Logger
}

// NewHTTP creates an HTTP transport backed by the given client
func NewHTTP(client ports.HTTPClient, logger *zap.Logger) ports.Transport {
	return &httpTransport{
		client: client,
		logger: logger,
	}
}

func (t *httpTransport) Post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("Gateway POST failed",
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	t.logger.Debug("Received gateway response",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("body_length", len(raw)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}

	return raw, nil
}
