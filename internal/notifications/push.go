package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExpoPushMessage is a single push message in the Expo push API request body.
type ExpoPushMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title,omitempty"`
	Body     string            `json:"body,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

// ExpoPushTicket is the per-message result returned by the Expo push API.
type ExpoPushTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// DeviceNotRegistered reports whether the ticket indicates a stale token that
// should be deactivated.
func (t ExpoPushTicket) DeviceNotRegistered() bool {
	return t.Status == "error" && t.Details.Error == "DeviceNotRegistered"
}

type expoPushResponse struct {
	Data []ExpoPushTicket `json:"data"`
}

// ExpoClient sends push notifications through the Expo push service.
type ExpoClient struct {
	url        string
	httpClient *http.Client
}

// NewExpoClient creates an ExpoClient targeting the given push endpoint.
func NewExpoClient(url string) *ExpoClient {
	return &ExpoClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers the given messages in one request and returns one ticket per
// message, in order.
func (c *ExpoClient) Send(ctx context.Context, messages []ExpoPushMessage) ([]ExpoPushTicket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send push request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	var parsed expoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode push response: %w", err)
	}

	return parsed.Data, nil
}
