package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindnest/wellness/internal/domain/repository"
	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/logger"
)

// restPrefix is where the hosted backend exposes its tables
const restPrefix = "/rest/v1/"

// APIError is an error body returned by the hosted backend
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error returns the backend's message unchanged
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote store returned status %d", e.Status)
}

// StoreMessage returns the message the backend reported
func (e *APIError) StoreMessage() string {
	return e.Error()
}

// Client talks to the hosted backend's REST interface
type Client struct {
	baseURL       string
	apiKey        string
	bearer        string
	httpClient    *http.Client
	customHeaders map[string]string
	logger        zerolog.Logger
}

var _ repository.RecordStore = (*Client)(nil)

// NewClient creates a new hosted backend client
func NewClient(cfg *config.RemoteConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote store URL is required")
	}

	// Parse and validate the URL
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote store URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid remote store URL scheme: %q", parsed.Scheme)
	}

	// Set default timeouts
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 10
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30
	}

	httpClient := &http.Client{
		Timeout: time.Duration(requestTimeout) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !cfg.ValidateCert,
			},
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: time.Duration(connectTimeout) * time.Second,
		},
	}

	l := logger.NewLogger("remote_store")

	// Parse custom headers
	customHeaders := make(map[string]string)
	if cfg.Headers != "" {
		if err := json.Unmarshal([]byte(cfg.Headers), &customHeaders); err != nil {
			l.Warn().Err(err).Msg("Failed to parse custom headers, ignoring")
		}
	}

	bearer := cfg.ServiceToken
	if bearer == "" {
		bearer = cfg.APIKey
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.URL, "/"),
		apiKey:        cfg.APIKey,
		bearer:        bearer,
		httpClient:    httpClient,
		customHeaders: customHeaders,
		logger:        l,
	}, nil
}

// buildRequest creates an HTTP request with proper headers
func (c *Client) buildRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	for k, v := range c.customHeaders {
		req.Header.Set(k, v)
	}

	return req, nil
}

// doRequest executes an HTTP request and returns the response body and headers
func (c *Client) doRequest(req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp, nil
}

// apiError decodes a backend error body, keeping its message verbatim
func apiError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) > 0 && json.Unmarshal(body, apiErr) != nil {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	apiErr.Status = status
	return apiErr
}

func formatValue(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// queryValues renders q in the backend's filter syntax, e.g. user_id=eq.abc
func queryValues(q *repository.Query, withPaging bool) url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}
	for _, f := range q.Filters {
		values.Add(f.Column, string(f.Op)+"."+formatValue(f.Value))
	}
	if !withPaging {
		return values
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		values.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	return values
}

// Insert writes one record into table
func (c *Client) Insert(ctx context.Context, table string, record any) error {
	req, err := c.buildRequest(ctx, http.MethodPost, restPrefix+url.PathEscape(table), nil, record)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=minimal")

	body, resp, err := c.doRequest(req)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK, http.StatusNoContent:
		return nil
	}

	apiErr := apiError(resp.StatusCode, body)
	c.logger.Warn().
		Str("table", table).
		Int("status", resp.StatusCode).
		Str("code", apiErr.Code).
		Msg("Remote insert rejected")
	return apiErr
}

// Select reads rows matching q into dest
func (c *Client) Select(ctx context.Context, table string, q *repository.Query, dest any) error {
	if err := q.Validate(); err != nil {
		return err
	}

	values := queryValues(q, true)
	values.Set("select", "*")

	req, err := c.buildRequest(ctx, http.MethodGet, restPrefix+url.PathEscape(table), values, nil)
	if err != nil {
		return err
	}

	body, resp, err := c.doRequest(req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return apiError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse %s rows: %w", table, err)
	}
	return nil
}

// Count counts rows matching q using the backend's exact count header
func (c *Client) Count(ctx context.Context, table string, q *repository.Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	values := queryValues(q, false)
	values.Set("select", "*")

	req, err := c.buildRequest(ctx, http.MethodHead, restPrefix+url.PathEscape(table), values, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	body, resp, err := c.doRequest(req)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, apiError(resp.StatusCode, body)
	}

	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange extracts the total from "0-24/3573" or "*/0"
func parseContentRange(header string) (int64, error) {
	idx := strings.LastIndexByte(header, '/')
	if idx < 0 || idx == len(header)-1 {
		return 0, fmt.Errorf("missing total in content range %q", header)
	}
	total, err := strconv.ParseInt(header[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid content range %q: %w", header, err)
	}
	return total, nil
}

// Ping checks if the hosted backend is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.buildRequest(ctx, http.MethodGet, restPrefix, nil, nil)
	if err != nil {
		return err
	}

	body, resp, err := c.doRequest(req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}

	return nil
}

// GetBaseURL returns the base URL of the hosted backend
func (c *Client) GetBaseURL() string {
	return c.baseURL
}
