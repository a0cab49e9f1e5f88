package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.LLMService = (*LLMService)(nil)
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	svc, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "Generated text."},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{MaxTokens: 128})
	require.NoError(t, err)
	assert.Equal(t, "Generated text.", got)
}

func TestGenerateStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frag := range []string{"A", "B", "C"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", frag)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	ch, err := svc.GenerateStream(context.Background(), "prompt", driven.GenerateOptions{})
	require.NoError(t, err)

	var got string
	for chunk := range ch {
		require.NoError(t, chunk.Err)
		got += chunk.Text
	}
	assert.Equal(t, "ABC", got)
}
