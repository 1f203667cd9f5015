package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timeout for console API requests
const apiRequestTimeout = 15 * time.Second

// manages HTTP requests to the pixelforge REST API
type APIClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// creates a new REST client; reads the endpoint and an optional JWT from
// the environment
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("PIXELFORGE_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &APIClient{
		endpoint: endpoint,
		token:    os.Getenv("PIXELFORGE_TOKEN"),
		httpClient: &http.Client{
			Timeout: apiRequestTimeout,
		},
	}
}

// fetches the caller's current allowance
func (c *APIClient) Status(ctx context.Context) (*statusPayload, error) {
	var result struct {
		Status *statusPayload `json:"status"`
	}

	if err := c.get(ctx, "/api/v1/credits/status", &result); err != nil {
		return nil, err
	}

	return result.Status, nil
}

// fetches one page of the account's ledger history
func (c *APIClient) History(ctx context.Context, limit, offset int) ([]historyEntry, int, error) {
	var result struct {
		Entries    []historyEntry `json:"entries"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}

	path := fmt.Sprintf("/api/v1/credits/history?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, 0, err
	}

	return result.Entries, result.Pagination.Total, nil
}

// claims the daily bonus; a denial comes back as a decision, not an error
func (c *APIClient) ClaimDailyBonus(ctx context.Context) (*decisionPayload, error) {
	var result struct {
		Decision *decisionPayload `json:"decision"`
	}

	url := fmt.Sprintf("%s/api/v1/credits/daily-bonus", c.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.do(req, http.StatusConflict, &result); err != nil {
		return nil, err
	}

	return result.Decision, nil
}

// returns a tea.Cmd that fetches the status
func (c *APIClient) StatusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		status, err := c.Status(ctx)
		if err != nil {
			return APIErrorMsg{command: "status", err: err}
		}

		return StatusMsg{status: status}
	}
}

// returns a tea.Cmd that fetches the first page of history
func (c *APIClient) HistoryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		entries, total, err := c.History(ctx, 20, 0)
		if err != nil {
			return APIErrorMsg{command: "history", err: err}
		}

		return HistoryMsg{entries: entries, total: total}
	}
}

// returns a tea.Cmd that claims the daily bonus
func (c *APIClient) ClaimDailyBonusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiRequestTimeout)
		defer cancel()

		decision, err := c.ClaimDailyBonus(ctx)
		if err != nil {
			return APIErrorMsg{command: "bonus", err: err}
		}

		return BonusMsg{decision: decision}
	}
}

func (c *APIClient) get(ctx context.Context, path string, out any) error {
	url := fmt.Sprintf("%s%s", c.endpoint, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, 0, out)
}

// sends the request and decodes a success (or explicitly tolerated) response.
// toleratedStatus lets the bonus call treat 409 as a decoded decision.
func (c *APIClient) do(req *http.Request, toleratedStatus int, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != toleratedStatus {
		var errResp struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}

		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
