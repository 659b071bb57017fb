package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kunalsaini/authline-backend/pkg/config"
	"github.com/kunalsaini/authline-backend/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// Client talks to the external image hosting API. Uploaded selfies are stored
// remotely and only the public URL and delete handle are persisted locally.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logg       *logger.Logger
}

// UploadResult carries the fields persisted alongside the user record.
type UploadResult struct {
	URL          string
	DeleteHandle string
}

func NewClient(cfg config.ImageHostConfig, logg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logg:       logg,
	}
}

// Enabled reports whether an API key was configured. Without one signups
// proceed without a live image.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type uploadResponse struct {
	Data struct {
		URL       string `json:"url"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
	Success bool `json:"success"`
	Status  int  `json:"status"`
}

// Upload pushes the image bytes to the host and returns the public URL plus
// the handle needed to delete it later. Callers must not persist a user row
// until this returns.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (*UploadResult, error) {
	if !c.Enabled() {
		return nil, errors.New("image host not configured")
	}
	if len(data) == 0 {
		return nil, errors.New("image payload is empty")
	}

	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("name", name)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	endpoint := c.baseURL + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	defer closeBody(ctx, c.logg, resp.Body, "closing image upload response body")

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if !parsed.Success || parsed.Data.URL == "" {
		return nil, fmt.Errorf("image host rejected upload: %s", truncate(body, 256))
	}

	return &UploadResult{
		URL:          parsed.Data.URL,
		DeleteHandle: parsed.Data.DeleteURL,
	}, nil
}

// Delete removes a previously uploaded image. A missing handle is a no-op so
// callers can pass whatever was stored on the user row.
func (c *Client) Delete(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	if c == nil || c.httpClient == nil {
		return errors.New("image host client not initialized")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, handle, nil)
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}
	defer closeBody(ctx, c.logg, resp.Body, "closing image delete response body")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("image host delete returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	return nil
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

func truncate(body []byte, max int) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > max {
		trimmed = trimmed[:max]
	}
	return string(trimmed)
}
