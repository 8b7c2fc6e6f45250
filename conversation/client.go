package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client proxies chat messages to the reasoning-agent HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenManager
}

func NewClient(tokens *TokenManager) *Client {
	return &Client{
		baseURL: os.Getenv("AGENT_BASE_URL"),
		http:    &http.Client{Timeout: 60 * time.Second},
		tokens:  tokens,
	}
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type QueryResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id,omitempty"`
}

// Query sends one user message and returns the agent's reply. A 401 from
// the agent invalidates the cached token and retries once with a fresh one.
func (c *Client) Query(ctx context.Context, sessionID, message string) (QueryResponse, error) {
	resp, err := c.query(ctx, sessionID, message)
	if err == nil || !isUnauthorized(err) {
		return resp, err
	}

	c.tokens.Invalidate(ctx)
	return c.query(ctx, sessionID, message)
}

func (c *Client) query(ctx context.Context, sessionID, message string) (QueryResponse, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("conversation: token: %w", err)
	}

	body, err := json.Marshal(queryRequest{Query: message, SessionID: sessionID})
	if err != nil {
		return QueryResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+":query", bytes.NewReader(body))
	if err != nil {
		return QueryResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return QueryResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return QueryResponse{}, errUnauthorized
	}
	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return QueryResponse{}, fmt.Errorf("conversation: agent returned %d: %s", res.StatusCode, payload)
	}

	var out QueryResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return QueryResponse{}, fmt.Errorf("conversation: decode reply: %w", err)
	}
	return out, nil
}

var errUnauthorized = fmt.Errorf("conversation: agent rejected token")

func isUnauthorized(err error) bool {
	return err == errUnauthorized
}
