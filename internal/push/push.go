//go:generate mockgen -source ./push.go -destination=./mocks/push.go -package=mock_push
package push

import (
	"context"
	"errors"
	"time"
)

const (
	// MaxBatchSize is the most messages the gateway accepts in one request.
	MaxBatchSize     = 100
	DefaultBatchSize = MaxBatchSize
	DefaultTTL       = 24 * time.Hour

	soundDefault  = "default"
	priorityHigh  = "high"
	badgeIncrease = 1
)

// ErrBatchFailed marks a batch the gateway did not accept.
var ErrBatchFailed = errors.New("push batch failed")

// TokenSource resolves the active device tokens of a user.
type TokenSource interface {
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
}

// Gateway posts one batch of messages to the push provider. Tickets are
// returned in message order.
type Gateway interface {
	Send(ctx context.Context, messages []Message) ([]Ticket, error)
}

// Notification is the provider-independent content shared by every message
// of one send.
type Notification struct {
	Title string
	Body  string
	Data  map[string]any
}

type Message struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Data     map[string]any `json:"data,omitempty"`
	TTL      int            `json:"ttl"`
	Priority string         `json:"priority"`
	Badge    int            `json:"badge"`
}

type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details"`
}

// BatchResult describes one gateway call.
type BatchResult struct {
	Index         int
	Size          int
	Err           error
	InvalidTokens []string
}

func (r BatchResult) OK() bool { return r.Err == nil }

func newMessage(token string, n Notification) Message {
	return Message{
		To:       token,
		Sound:    soundDefault,
		Title:    n.Title,
		Body:     n.Body,
		Data:     n.Data,
		TTL:      int(DefaultTTL.Seconds()),
		Priority: priorityHigh,
		Badge:    badgeIncrease,
	}
}
