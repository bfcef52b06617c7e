// Package sheets provides the spreadsheet API client used to fetch roster
// columns and write cells back.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RosterService defines the spreadsheet operations the batch engine needs.
type RosterService interface {
	// GetColumn fetches one column from the configured start row to the
	// sheet's end. The API omits trailing empty cells, so the returned
	// slice may be shorter than other columns; empty cells before the last
	// populated one are preserved as "".
	GetColumn(ctx context.Context, column string) ([]string, error)
	// UpdateCell writes a single cell. rowNum is the 1-based spreadsheet
	// row number, not a roster index.
	UpdateCell(ctx context.Context, column string, rowNum int, value string) error
}

// Config locates the roster inside a spreadsheet.
type Config struct {
	SpreadsheetID string
	Tab           string
	StartRow      int
	BaseURL       string
	Token         string
}

// Client implements RosterService over the spreadsheet REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ RosterService = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a spreadsheet client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("spreadsheet id required")
	}
	if strings.TrimSpace(cfg.Tab) == "" {
		return nil, errors.New("sheet tab required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("bearer token required")
	}
	if cfg.StartRow < 1 {
		return nil, fmt.Errorf("start row must be >= 1, got %d", cfg.StartRow)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, errors.New("sheets base url required")
	}

	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// columnRange renders an open-ended single-column range like "Tab!D3:D".
func (c *Client) columnRange(column string) string {
	return fmt.Sprintf("%s!%s%d:%s", c.cfg.Tab, column, c.cfg.StartRow, column)
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// GetColumn implements RosterService.
func (c *Client) GetColumn(ctx context.Context, column string) ([]string, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.SpreadsheetID), url.PathEscape(c.columnRange(column))))
	if err != nil {
		return nil, fmt.Errorf("parse sheets url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheets fetch for column %s returned %d (latency=%v)", column, resp.StatusCode, latency)
	}

	var payload valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode sheets response: %w", err)
	}

	// Each row arrives as a slice; sparse rows come back empty. Positions
	// must be preserved so all columns index the same roster rows.
	cells := make([]string, len(payload.Values))
	for i, row := range payload.Values {
		if len(row) > 0 {
			cells[i] = row[0]
		}
	}
	return cells, nil
}

type updateRequest struct {
	Values [][]string `json:"values"`
}

// UpdateCell implements RosterService.
func (c *Client) UpdateCell(ctx context.Context, column string, rowNum int, value string) error {
	if rowNum < 1 {
		return fmt.Errorf("row number must be >= 1, got %d", rowNum)
	}
	cell := fmt.Sprintf("%s!%s%d", c.cfg.Tab, column, rowNum)
	endpoint, err := url.Parse(fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s",
		c.cfg.BaseURL, url.PathEscape(c.cfg.SpreadsheetID), url.PathEscape(cell)))
	if err != nil {
		return fmt.Errorf("parse sheets url: %w", err)
	}
	params := url.Values{}
	// USER_ENTERED makes the API evaluate HYPERLINK formulas.
	params.Set("valueInputOption", "USER_ENTERED")
	endpoint.RawQuery = params.Encode()

	body, err := json.Marshal(updateRequest{Values: [][]string{{value}}})
	if err != nil {
		return fmt.Errorf("encode update body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets update for %s returned %d (latency=%v)", cell, resp.StatusCode, latency)
	}
	return nil
}
