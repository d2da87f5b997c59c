package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// PushPayload is the notification body delivered to a subscribed device.
type PushPayload struct {
	Titulo string `json:"title"`
	Corpo  string `json:"body"`
	Tag    string `json:"tag,omitempty"`
	URL    string `json:"url,omitempty"`
}

// ErrSubscriptionGone signals that the push endpoint rejected the subscription
// permanently (404/410). The caller should deactivate it.
var ErrSubscriptionGone = errors.New("push subscription gone")

// PushClient delivers notifications to browser push endpoints. Deliveries run
// through a shared circuit breaker so a gateway outage fails fast instead of
// tying up the worker pool.
type PushClient struct {
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewPushClient(cb *CircuitBreaker) *PushClient {
	return &PushClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
	}
}

// Send posts the payload to a single subscription endpoint.
func (c *PushClient) Send(ctx context.Context, endpoint string, payload PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("push: marshal payload: %w", err)
	}

	// A 404/410 means this one subscription died, not that the gateway is
	// unhealthy — it must not count as a breaker failure.
	var gone bool
	err = c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("push: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("TTL", "86400")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("push: gateway unreachable: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
			gone = true
			return nil
		case resp.StatusCode >= 400:
			return fmt.Errorf("push: gateway returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if gone {
		return ErrSubscriptionGone
	}
	return nil
}

// CircuitState exposes the breaker state for the health endpoint.
func (c *PushClient) CircuitState() CBState { return c.cb.State() }
