package natsrpc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Requester sends one request and waits for the reply.
type Requester interface {
	Request(ctx context.Context, subject string, payload []byte) ([]byte, error)
}

type Client struct {
	requester Requester
	subject   string
}

func NewClient(requester Requester, subject string) *Client {
	return &Client{requester: requester, subject: subject}
}

// Retrieve returns the decoded reply. Service-side failures are reported in
// the response's ErrorCode, not as a Go error.
func (c *Client) Retrieve(ctx context.Context, req RetrievalRequest) (*RetrievalResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode retrieval request: %w", err)
	}
	raw, err := c.requester.Request(ctx, c.subject, payload)
	if err != nil {
		return nil, err
	}
	var resp RetrievalResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}
	return &resp, nil
}
