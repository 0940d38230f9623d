package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const ticketDeviceNotRegistered = "DeviceNotRegistered"

// HTTPGateway talks to an Expo-compatible push endpoint.
type HTTPGateway struct {
	url         string
	accessToken string
	client      *http.Client
}

func NewHTTPGateway(url, accessToken string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url:         url,
		accessToken: accessToken,
		client:      &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGateway) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to encode push batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read push response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("push gateway returned %s: %s", resp.Status, bytes.TrimSpace(respBody))
	}

	var parsed struct {
		Data []Ticket `json:"data"`
	}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			// the gateway accepted the batch; tickets are diagnostic only
			return nil, nil
		}
	}

	return parsed.Data, nil
}

// invalidTokens pairs tickets with the messages they answer and returns the
// tokens the provider no longer recognises.
func invalidTokens(messages []Message, tickets []Ticket) []string {
	var out []string
	for i, t := range tickets {
		if i >= len(messages) {
			break
		}
		if t.Status == "error" && t.Details.Error == ticketDeviceNotRegistered {
			out = append(out, messages[i].To)
		}
	}
	return out
}
