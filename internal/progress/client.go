package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// Client implements Tracker against the progress HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ Tracker = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a progress API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types shared with the HTTP handlers.
type (
	ValidateResponse struct {
		Success  bool   `json:"success"`
		Passed   bool   `json:"passed"`
		Feedback string `json:"feedback"`
		Error    string `json:"error,omitempty"`
	}

	CompleteRequest struct {
		LessonID string `json:"lessonId"`
	}

	CompleteResponse struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}

	ProgressResponse struct {
		Success bool         `json:"success"`
		User    ProgressUser `json:"user"`
		Error   string       `json:"error,omitempty"`
	}

	// ProgressUser carries the summary as a JSON-encoded string.
	ProgressUser struct {
		Progress string `json:"progress"`
	}
)

func (c *Client) SubmitAnswer(ctx context.Context, lessonID string, sub Submission) (Verdict, error) {
	var resp ValidateResponse
	path := "/api/lessons/" + url.PathEscape(lessonID) + "/validate"
	if err := c.do(ctx, http.MethodPost, path, sub, &resp); err != nil {
		return Verdict{}, err
	}
	if !resp.Success {
		return Verdict{}, fmt.Errorf("validate lesson %s: %s", lessonID, resp.Error)
	}
	return Verdict{Passed: resp.Passed, Feedback: resp.Feedback}, nil
}

func (c *Client) CompleteLesson(ctx context.Context, userID, lessonID string) error {
	var resp CompleteResponse
	path := "/api/user/" + url.PathEscape(userID) + "/complete-lesson"
	if err := c.do(ctx, http.MethodPost, path, CompleteRequest{LessonID: lessonID}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("complete lesson %s: %s", lessonID, resp.Error)
	}
	return nil
}

func (c *Client) Progress(ctx context.Context, userID string) (Summary, error) {
	var resp ProgressResponse
	path := "/api/user/" + url.PathEscape(userID) + "/progress"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return Summary{}, err
	}
	if !resp.Success {
		return Summary{}, fmt.Errorf("progress for %s: %s", userID, resp.Error)
	}

	var s Summary
	if err := json.Unmarshal([]byte(resp.User.Progress), &s); err != nil {
		return Summary{}, fmt.Errorf("decode progress: %w", err)
	}
	return s, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("progress api error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// EncodeSummary renders s in the string form used by ProgressUser.
func EncodeSummary(s Summary) string {
	data, _ := json.Marshal(s)
	return string(data)
}
