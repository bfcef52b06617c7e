// Package drive uploads submission files to cloud storage and makes them
// readable through shareable view links.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"
)

// Uploader defines the storage operations the batch engine needs.
type Uploader interface {
	// Upload stores the file at path under name in the configured folder
	// and returns the storage file id.
	Upload(ctx context.Context, path, name string) (string, error)
	// ShareReader grants anyone-with-the-link read access to a file.
	ShareReader(ctx context.Context, fileID string) error
	// ViewLink renders the browser link for an uploaded file.
	ViewLink(fileID string) string
}

// Config describes the upload destination.
type Config struct {
	FolderID      string
	BaseURL       string
	UploadBaseURL string
	Token         string
}

// Client implements Uploader over the storage REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ Uploader = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The upload timeout is
// governed by the caller's context, not the client timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a storage client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.FolderID) == "" {
		return nil, errors.New("folder id required")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("bearer token required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, errors.New("base url required")
	}
	cfg.UploadBaseURL = strings.TrimRight(strings.TrimSpace(cfg.UploadBaseURL), "/")
	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = cfg.BaseURL
	}

	client := &Client{cfg: cfg, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type fileMetadata struct {
	Name     string   `json:"name"`
	MimeType string   `json:"mimeType"`
	Parents  []string `json:"parents"`
}

type createResponse struct {
	ID string `json:"id"`
}

// Upload implements Uploader using a multipart/related request carrying the
// metadata part followed by the file content.
func (c *Client) Upload(ctx context.Context, path, name string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open submission: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return "", fmt.Errorf("create metadata part: %w", err)
	}
	meta := fileMetadata{
		Name:     name,
		MimeType: "application/octet-stream",
		Parents:  []string{c.cfg.FolderID},
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	contentHeader := textproto.MIMEHeader{}
	contentHeader.Set("Content-Type", "application/octet-stream")
	contentPart, err := writer.CreatePart(contentHeader)
	if err != nil {
		return "", fmt.Errorf("create content part: %w", err)
	}
	if _, err := io.Copy(contentPart, file); err != nil {
		return "", fmt.Errorf("read submission: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize upload body: %w", err)
	}

	endpoint, err := url.Parse(c.cfg.UploadBaseURL + "/upload/drive/v3/files")
	if err != nil {
		return "", fmt.Errorf("parse upload url: %w", err)
	}
	params := url.Values{}
	params.Set("uploadType", "multipart")
	params.Set("fields", "id")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return "", fmt.Errorf("execute upload (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload createResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.ID == "" {
		return "", errors.New("upload response missing file id")
	}
	return payload.ID, nil
}

type permissionRequest struct {
	Role string `json:"role"`
	Type string `json:"type"`
}

// ShareReader implements Uploader.
func (c *Client) ShareReader(ctx context.Context, fileID string) error {
	if strings.TrimSpace(fileID) == "" {
		return errors.New("file id required")
	}
	endpoint, err := url.Parse(fmt.Sprintf("%s/drive/v3/files/%s/permissions", c.cfg.BaseURL, url.PathEscape(fileID)))
	if err != nil {
		return fmt.Errorf("parse permissions url: %w", err)
	}

	body, err := json.Marshal(permissionRequest{Role: "reader", Type: "anyone"})
	if err != nil {
		return fmt.Errorf("encode permission body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
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
		return fmt.Errorf("permissions create returned %d (latency=%v)", resp.StatusCode, latency)
	}
	return nil
}

// ViewLink implements Uploader.
func (c *Client) ViewLink(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", fileID)
}
