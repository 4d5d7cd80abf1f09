package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/eringen/draftsmith/httputil"
)

// Replicate submits a prediction job and polls it until it finishes.
type Replicate struct {
	BaseURL    string
	Token      string
	Model      string // owner/name
	HTTPClient *http.Client
	Poll       PollConfig
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// Prediction statuses.
const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
	statusCanceled  = "canceled"
)

func (p *Replicate) Name() string { return "replicate" }

func (p *Replicate) Generate(ctx context.Context, prompt string) (string, error) {
	job, err := p.submit(ctx, prompt)
	if err != nil {
		return "", err
	}
	if url, done, err := job.result(); err != nil || done {
		return url, err
	}
	statusURL := job.URLs.Get
	if statusURL == "" {
		statusURL = strings.TrimRight(p.BaseURL, "/") + "/predictions/" + job.ID
	}
	return Poll(ctx, p.Poll, func(ctx context.Context) (string, bool, error) {
		cur, err := p.fetch(ctx, statusURL)
		if err != nil {
			return "", false, err
		}
		return cur.result()
	})
}

func (p *Replicate) submit(ctx context.Context, prompt string) (*prediction, error) {
	body, err := json.Marshal(map[string]any{
		"input": map[string]any{
			"prompt":        prompt,
			"aspect_ratio":  "16:9",
			"output_format": "jpg",
		},
	})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/models/%s/predictions", strings.TrimRight(p.BaseURL, "/"), p.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(ctx, req)
}

func (p *Replicate) fetch(ctx context.Context, statusURL string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return nil, err
	}
	return p.do(ctx, req)
}

func (p *Replicate) do(ctx context.Context, req *http.Request) (*prediction, error) {
	req.Header.Set("Authorization", "Bearer "+p.Token)
	resp, err := httputil.DoWithRetry(ctx, p.HTTPClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("replicate: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("replicate: HTTP %d: %s", resp.StatusCode, raw)
	}
	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode prediction: %w", err)
	}
	return &pred, nil
}

// result reports the image URL once the prediction succeeded, an error once
// it failed, or done=false while it is still running.
func (pr *prediction) result() (string, bool, error) {
	switch pr.Status {
	case statusSucceeded:
		url := outputURL(pr.Output)
		if url == "" {
			return "", false, errors.New("replicate: succeeded without output")
		}
		return url, true, nil
	case statusFailed, statusCanceled:
		return "", false, fmt.Errorf("replicate: prediction %s: %v", pr.Status, pr.Error)
	default:
		return "", false, nil
	}
}

// outputURL accepts either a single URL or a list of URLs.
func outputURL(raw json.RawMessage) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
