// Package client is the data layer for message board frontends. It
// talks to the REST API and provides pure view helpers for sorting and
// filtering the fetched post list.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nasermirzaei89/corkboard/board"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// APIError is a non-2xx response decoded from the server's error payload.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (err APIError) Error() string {
	if err.Details != "" {
		return fmt.Sprintf("api error (status %d): %s: %s", err.StatusCode, err.Message, err.Details)
	}

	return fmt.Sprintf("api error (status %d): %s", err.StatusCode, err.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}

		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := APIError{StatusCode: res.StatusCode}

		var payload struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}

		if err := json.NewDecoder(res.Body).Decode(&payload); err == nil {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		}

		return apiErr
	}

	if out != nil {
		err = json.NewDecoder(res.Body).Decode(out)
		if err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// FetchPosts retrieves the entire post list. Callers replace their
// local list with the result; there is no incremental merge.
func (c *Client) FetchPosts(ctx context.Context) ([]board.Post, error) {
	var posts []board.Post

	err := c.do(ctx, http.MethodGet, "/api/posts", nil, &posts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}

	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, username, message string) (*board.Post, error) {
	body := map[string]string{
		"username": username,
		"message":  message,
	}

	var post board.Post

	err := c.do(ctx, http.MethodPost, "/api/posts", body, &post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

func (c *Client) AddReply(ctx context.Context, postID, username, message string) error {
	body := map[string]string{
		"username": username,
		"message":  message,
	}

	err := c.do(ctx, http.MethodPost, "/api/posts/"+postID+"/replies", body, nil)
	if err != nil {
		return fmt.Errorf("failed to add reply: %w", err)
	}

	return nil
}

func (c *Client) EditPost(ctx context.Context, postID, message string) error {
	body := map[string]string{
		"message": message,
	}

	err := c.do(ctx, http.MethodPut, "/api/posts/"+postID, body, nil)
	if err != nil {
		return fmt.Errorf("failed to edit post: %w", err)
	}

	return nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	err := c.do(ctx, http.MethodDelete, "/api/posts/"+postID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}
