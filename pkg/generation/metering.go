package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// UsageReporter reports one billing usage event for a customer. Calls
// are best-effort; the gateway never lets a reporter failure reach the
// caller.
type UsageReporter interface {
	ReportUsage(ctx context.Context, customerID, prompt string) error
}

// HTTPReporter posts usage events as JSON to a metering collector.
type HTTPReporter struct {
	url    string
	client *http.Client
}

// NewHTTPReporter creates a reporter posting to the given URL.
func NewHTTPReporter(url string) *HTTPReporter {
	return &HTTPReporter{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// ReportUsage posts a single image_generation event.
func (r *HTTPReporter) ReportUsage(ctx context.Context, customerID, prompt string) error {
	body, err := json.Marshal(map[string]any{
		"customerId": customerID,
		"event":      "image_generation",
		"quantity":   1,
		"prompt":     prompt,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal usage event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build usage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post usage event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post usage event: status %d", resp.StatusCode)
	}
	return nil
}
