// Package upstream implements the HTTP client for the social-network REST
// backend the gateway sits in front of. Responses arrive in loosely-typed
// envelopes (data/post/posts wrappers, sometimes bare payloads); this package
// unwraps them and hands raw maps to the adapter layer, which owns all
// further shape tolerance.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// contextKey is private to keep token injection collision-free.
type contextKey string

const tokenKey contextKey = "upstream_token"

// WithToken returns a context carrying the caller's bearer token, forwarded
// on every upstream request made with it.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// Client talks to the upstream REST API. It satisfies feed.Upstream.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the API at baseURL. Transient failures are
// retried a small number of times with backoff.
func NewClient(baseURL string, timeout time.Duration) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 2
	retry.RetryWaitMin = 200 * time.Millisecond
	retry.RetryWaitMax = 2 * time.Second
	retry.HTTPClient.Timeout = timeout
	retry.Logger = nil

	return &Client{
		baseURL: baseURL,
		http:    retry.StandardClient(),
	}
}

// FetchPostCollection returns the full ordered post list. The backend does
// not support offset pagination on this endpoint; callers slice client-side.
func (c *Client) FetchPostCollection(ctx context.Context) ([]map[string]interface{}, error) {
	payload, err := c.get(ctx, "/api/posts")
	if err != nil {
		return nil, err
	}
	return unwrapList(payload, "posts"), nil
}

// FetchSinglePost returns one raw post by id.
func (c *Client) FetchSinglePost(ctx context.Context, postID string) (map[string]interface{}, error) {
	payload, err := c.get(ctx, "/api/posts/"+url.PathEscape(postID))
	if err != nil {
		return nil, err
	}
	return unwrapObject(payload, "data", "post"), nil
}

// FetchCurrentViewer returns the raw profile of the authenticated user, or
// nil when the backend reports no session.
func (c *Client) FetchCurrentViewer(ctx context.Context) (map[string]interface{}, error) {
	payload, err := c.get(ctx, "/api/auth/me")
	if err != nil {
		return nil, err
	}
	return unwrapObject(payload, "data", "user"), nil
}

// SetLike moves the viewer's like state on a post to the desired value.
func (c *Client) SetLike(ctx context.Context, postID string, desired bool) error {
	body := map[string]interface{}{"liked": desired}
	_, err := c.send(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", body)
	return err
}

// SubmitComment posts a comment and returns the server-authoritative raw
// comment document.
func (c *Client) SubmitComment(ctx context.Context, postID, text string) (map[string]interface{}, error) {
	body := map[string]interface{}{"text": text}
	payload, err := c.send(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comment", body)
	if err != nil {
		return nil, err
	}
	return unwrapObject(payload, "comment", "data"), nil
}

// DeleteComment removes a comment from a post.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID string) error {
	path := "/api/posts/" + url.PathEscape(postID) + "/comment/" + url.PathEscape(commentID)
	_, err := c.send(ctx, http.MethodDelete, path, nil)
	return err
}

// DeletePost removes a post.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	_, err := c.send(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil)
	return err
}

func (c *Client) get(ctx context.Context, path string) (interface{}, error) {
	return c.send(ctx, http.MethodGet, path, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (interface{}, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Limit error body to 1KB to prevent unbounded reads
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, wrapStatus(method, path, resp.StatusCode, string(detail))
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return payload, nil
}

// wrapStatus converts an HTTP status into the package's typed errors so
// callers can use errors.Is().
func wrapStatus(method, path string, status int, detail string) error {
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrBadRequest, detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrUnauthorized, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrForbidden, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrNotFound, detail)
	}
	return fmt.Errorf("%s %s: unexpected status code %d: %s", method, path, status, detail)
}

// unwrapList digs the post array out of its envelope: a bare array, or an
// object keyed by one of the given fields, possibly under a data wrapper.
func unwrapList(payload interface{}, keys ...string) []map[string]interface{} {
	switch v := payload.(type) {
	case []interface{}:
		return toObjectList(v)
	case map[string]interface{}:
		for _, key := range keys {
			if arr, ok := v[key].([]interface{}); ok {
				return toObjectList(arr)
			}
		}
		if data, ok := v["data"]; ok {
			return unwrapList(data, keys...)
		}
	}
	return nil
}

// unwrapObject digs a single document out of its envelope, trying the given
// wrapper fields before falling back to the payload itself.
func unwrapObject(payload interface{}, keys ...string) map[string]interface{} {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range keys {
		if inner, ok := obj[key].(map[string]interface{}); ok {
			return inner
		}
	}
	return obj
}

func toObjectList(arr []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(arr))
	for _, entry := range arr {
		if obj, ok := entry.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}
