package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 5*time.Second), server
}

func TestFetchPostCollection(t *testing.T) {
	t.Run("unwraps the posts envelope", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/posts", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"posts": []map[string]interface{}{{"_id": "p1"}, {"_id": "p2"}},
			})
		})
		defer server.Close()

		posts, err := client.FetchPostCollection(context.Background())
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "p1", posts[0]["_id"])
	})

	t.Run("accepts a nested data envelope", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"posts": []map[string]interface{}{{"_id": "p1"}},
				},
			})
		})
		defer server.Close()

		posts, err := client.FetchPostCollection(context.Background())
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("accepts a bare array", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode([]map[string]interface{}{{"_id": "p1"}})
		})
		defer server.Close()

		posts, err := client.FetchPostCollection(context.Background())
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})
}

func TestFetchSinglePost(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/p9", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"post": map[string]interface{}{"_id": "p9", "text": "hi"},
		})
	})
	defer server.Close()

	post, err := client.FetchSinglePost(context.Background(), "p9")
	require.NoError(t, err)
	assert.Equal(t, "hi", post["text"])
}

func TestTokenForwarding(t *testing.T) {
	var seen string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{"_id": "u1"}})
	})
	defer server.Close()

	ctx := WithToken(context.Background(), "tok123")
	_, err := client.FetchCurrentViewer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", seen)
}

func TestSetLike(t *testing.T) {
	var gotBody map[string]interface{}
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts/p1/like", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	require.NoError(t, client.SetLike(context.Background(), "p1", true))
	assert.Equal(t, true, gotBody["liked"])
}

func TestSubmitComment(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/p1/comment", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"comment": map[string]interface{}{"_id": "c-server", "text": "hello"},
		})
	})
	defer server.Close()

	comment, err := client.SubmitComment(context.Background(), "p1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "c-server", comment["_id"])
}

func TestTypedStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		target error
	}{
		{"404 maps to ErrNotFound", http.StatusNotFound, ErrNotFound},
		{"401 maps to ErrUnauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"403 maps to ErrForbidden", http.StatusForbidden, ErrForbidden},
		{"400 maps to ErrBadRequest", http.StatusBadRequest, ErrBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			defer server.Close()

			_, err := client.FetchSinglePost(context.Background(), "p1")
			assert.ErrorIs(t, err, tc.target)
		})
	}
}

func TestDeletePost(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/p1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	assert.NoError(t, client.DeletePost(context.Background(), "p1"))
}
