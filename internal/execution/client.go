package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Runner executes a single piece of user code against one stdin and reports
// the raw outcome. Adjudication (output comparison, scoring) happens above
// this layer.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

type RunRequest struct {
	Code             string `json:"code"`
	Language         string `json:"language"`
	Stdin            string `json:"stdin"`
	TimeLimitSeconds int    `json:"timeLimit"`
}

type RunResult struct {
	Stdout    string `json:"stdout"`
	Stderr    string `json:"stderr"`
	ExitCode  int    `json:"exitCode"`
	RuntimeMs int64  `json:"runtimeMs"`
}

// Client talks to the code execution service over HTTP.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Run calls /execute on the execution service
func (c *Client) Run(ctx context.Context, runReq RunRequest) (*RunResult, error) {
	url := fmt.Sprintf("%s/execute", c.BaseURL)

	jsonData, err := json.Marshal(runReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("ExecutionService /execute returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("execution failed: %d", resp.StatusCode)
	}

	var out RunResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
