package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/draftsmith/credentials"
)

const articleJSON = `{"title":"T","intro":"<p>i</p>","items":[{"title":"a","content":"<p>c</p>","imagePrompt":"p"}],"conclusion":"<p>end</p>"}`

func chatCompletion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestFromCredentials_NoProvider(t *testing.T) {
	_, err := FromCredentials(credentials.New(nil), Endpoints{})
	assert.ErrorIs(t, err, ErrNoProvider)

	_, err = GeminiFromCredentials(credentials.New(nil), Endpoints{})
	assert.ErrorIs(t, err, ErrNoGeminiKey)
}

func TestFromCredentials_Preference(t *testing.T) {
	p, err := FromCredentials(credentials.New(map[string]string{
		credentials.KeyAPIFreeAPIKey:    "a",
		credentials.KeyOpenRouterAPIKey: "o",
	}), Endpoints{})
	require.NoError(t, err)
	assert.Equal(t, "apifree", p.Name())

	p, err = FromCredentials(credentials.New(map[string]string{
		credentials.KeyOpenRouterAPIKey: "o",
		credentials.KeyOpenRouterModel:  "custom/model",
	}), Endpoints{})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "custom/model", p.(*ChatProvider).Model())
}

func TestChatProvider_Complete(t *testing.T) {
	var gotAuth, gotReferer, gotTitle, gotPath string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletion(articleJSON))
	}))
	defer ts.Close()

	p, err := FromCredentials(credentials.New(map[string]string{
		credentials.KeyOpenRouterAPIKey: "or-key",
	}), Endpoints{
		OpenRouterBaseURL: ts.URL + "/api/v1",
		HTTPClient:        ts.Client(),
		SiteURL:           "https://example.com",
		SiteName:          "Example",
	})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "write something")
	require.NoError(t, err)

	assert.Equal(t, articleJSON, out)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer or-key", gotAuth)
	assert.Equal(t, "https://example.com", gotReferer)
	assert.Equal(t, "Example", gotTitle)
	assert.Equal(t, "google/gemini-2.0-flash-001", gotBody["model"])
}

func TestChatProvider_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key","code":401}}`)
	}))
	defer ts.Close()

	p, err := FromCredentials(credentials.New(map[string]string{
		credentials.KeyAPIFreeAPIKey: "bad",
	}), Endpoints{APIFreeBaseURL: ts.URL, HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x")
	var httpErr *UpstreamHTTPError
	require.True(t, errors.As(err, &httpErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "apifree", httpErr.Provider)
	assert.Contains(t, httpErr.Body, "invalid api key")
}

func TestChatProvider_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[]}`)
	}))
	defer ts.Close()

	p, err := FromCredentials(credentials.New(map[string]string{
		credentials.KeyAPIFreeAPIKey: "k",
	}), Endpoints{APIFreeBaseURL: ts.URL, HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrUpstreamShape)
}

func geminiServer(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGeminiProvider_Complete(t *testing.T) {
	reply, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": articleJSON}},
			},
		}},
	})
	var path string
	ts := geminiServer(t, http.StatusOK, string(reply), &path)

	p, err := GeminiFromCredentials(credentials.New(map[string]string{
		credentials.KeyGeminiAPIKey: "g-key",
	}), Endpoints{GeminiBaseURL: ts.URL + "/", HTTPClient: ts.Client()})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "write")
	require.NoError(t, err)
	assert.Equal(t, articleJSON, out)
	assert.True(t, strings.HasSuffix(path, "models/gemini-2.0-flash:generateContent"), path)
}

func TestGeminiProvider_HTTPError(t *testing.T) {
	ts := geminiServer(t, http.StatusForbidden,
		`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`, nil)

	p, err := GeminiFromCredentials(credentials.New(map[string]string{
		credentials.KeyGeminiAPIKey: "g-key",
	}), Endpoints{GeminiBaseURL: ts.URL + "/", HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "write")
	var httpErr *UpstreamHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "API key not valid")
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	ts := geminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	p, err := GeminiFromCredentials(credentials.New(map[string]string{
		credentials.KeyGeminiAPIKey: "g-key",
	}), Endpoints{GeminiBaseURL: ts.URL + "/", HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "write")
	assert.ErrorIs(t, err, ErrUpstreamShape)
}
