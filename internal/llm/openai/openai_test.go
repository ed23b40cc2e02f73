package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/llm/openai"
)

func TestClient_Generate(t *testing.T) {
	var (
		gotModel, gotAuth string
		gotTemperature    *float64
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}

		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model       string   `json:"model"`
			Temperature *float64 `json:"temperature"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model
		gotTemperature = req.Temperature

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Services"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	c := openai.New(srv.URL+"/v1", "sk-test", "gpt-4o-mini", nil)

	got, err := c.Generate(context.Background(), "classify")
	require.NoError(t, err)

	assert.Equal(t, "Services", got)
	assert.Equal(t, "gpt-4o-mini", gotModel)
	assert.Equal(t, "Bearer sk-test", gotAuth)

	require.NotNil(t, gotTemperature, "temperature must be sent explicitly")
	assert.InDelta(t, 0, *gotTemperature, 1e-6)
}

func TestClient_Generate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	_, err := openai.New(srv.URL+"/v1", "", "m", nil).Generate(context.Background(), "classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestClient_Generate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := openai.New(srv.URL+"/v1", "", "m", nil).Generate(context.Background(), "classify")
	assert.Error(t, err)
}
