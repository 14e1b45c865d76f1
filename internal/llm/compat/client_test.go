package compat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/lease-analyzer/internal/common"
	"github.com/joseph-ayodele/lease-analyzer/internal/llm"
)

func TestCompleteSendsChatCompletion(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  {\"tenant\":\"John\"}  "}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL + "/v1/", Model: "llama3"}, nil)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), llm.Request{System: "sys", User: "doc", JSON: true, Temperature: 0.1})
	require.NoError(t, err)
	assert.Equal(t, `{"tenant":"John"}`, out)
	assert.Equal(t, "llama3", body["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.Len(t, body["messages"], 2)
}

func TestCompleteRequestModelOverrides(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Model: "small"}, nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), llm.Request{User: "q", Model: "large"})
	require.NoError(t, err)
	assert.Equal(t, "large", body["model"])
	assert.NotContains(t, body, "response_format")
}

func TestCompleteErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty/chat/completions":
			_, _ = w.Write([]byte(`{"choices":[]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/empty"}, nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), llm.Request{User: "q"})
	assert.Error(t, err)

	c, err = NewClient(Config{BaseURL: srv.URL + "/down"}, nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), llm.Request{User: "q"})
	assert.Error(t, err)
}

func TestNewClientNeedsBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrProviderUnavailable))
}

func TestCompleteOverloadedIsSingleCall(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), llm.Request{User: "q"})
	require.Error(t, err)
	assert.Equal(t, 1, hits)
	assert.True(t, errors.Is(err, common.ErrProviderUnavailable))
}
