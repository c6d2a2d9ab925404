// Package scripts calls the external report script service.
package scripts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Action names a script the service can run.
type Action string

const (
	ActionAnnualReport Action = "annual-report"
	ActionDeclaration  Action = "declaration"
)

const (
	runPath = "/api/scripts/run"

	msgUnreachable = "Unable to reach the script service."
	msgFailed      = "Script execution failed."
	msgSucceeded   = "Script executed successfully."
)

// ErrUnknownAction is returned for actions other than the known scripts.
var ErrUnknownAction = errors.New("unknown script action")

// ParseAction validates s as an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionAnnualReport, ActionDeclaration:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Result is the outcome of a script run.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client posts run requests to the script service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for baseURL. An empty baseURL sends requests to
// the relative path, which only works behind a proxy.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Run asks the service to run action. Transport failures are reported in
// the Result, never as an error; the only error is an unknown action.
func (c *Client) Run(ctx context.Context, action Action) (*Result, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]string{"action": string(action)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+runPath, bytes.NewReader(body))
	if err != nil {
		return c.unreachable(action, err), nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.unreachable(action, err), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.unreachable(action, err), nil
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	result := decodeResult(raw, ok)

	c.logger.Info().
		Str("action", string(action)).
		Int("status", resp.StatusCode).
		Bool("success", result.Success).
		Msg("script run finished")

	return result, nil
}

func (c *Client) unreachable(action Action, err error) *Result {
	c.logger.Warn().Err(err).Str("action", string(action)).Msg("script service unreachable")
	return &Result{Success: false, Message: msgUnreachable}
}

// decodeResult reads the optional message and data fields of the response
// payload. When data is absent the whole payload is passed through.
func decodeResult(raw []byte, ok bool) *Result {
	result := &Result{Success: ok, Message: msgFailed}
	if ok {
		result.Message = msgSucceeded
	}

	var payload struct {
		Message *string         `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return result
	}

	if payload.Message != nil {
		result.Message = *payload.Message
	}
	if len(payload.Data) > 0 && string(payload.Data) != "null" {
		result.Data = payload.Data
	} else {
		result.Data = json.RawMessage(raw)
	}

	return result
}
