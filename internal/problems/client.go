package problems

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
)

// ErrNoProblems signals the problem service had no candidate for the
// requested difficulty after the exclusion filters.
var ErrNoProblems = errors.New("no problems available")

// Service supplies duel problems. Exclusions are requested filters; the
// caller decides how to relax them when nothing matches.
type Service interface {
	RandomProblem(ctx context.Context, difficulty model.Difficulty, excludeCategories, excludeIDs []string) (*Problem, error)
	GetProblem(ctx context.Context, problemID string) (*Problem, error)
}

type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Hidden   bool   `json:"hidden"`
}

type Problem struct {
	ProblemID   string           `json:"problemId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Category    string           `json:"category"`
	TestCases   []TestCase       `json:"testCases"`
}

// Client talks to the problem catalogue service over HTTP.
type Client struct {
	BaseURL string
	Client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RandomProblem calls /problems/random on the problem service
func (c *Client) RandomProblem(ctx context.Context, difficulty model.Difficulty, excludeCategories, excludeIDs []string) (*Problem, error) {
	q := url.Values{}
	q.Set("difficulty", string(difficulty))
	if len(excludeCategories) > 0 {
		q.Set("excludeCategories", strings.Join(excludeCategories, ","))
	}
	if len(excludeIDs) > 0 {
		q.Set("excludeIds", strings.Join(excludeIDs, ","))
	}

	reqURL := fmt.Sprintf("%s/problems/random?%s", c.BaseURL, q.Encode())
	return c.fetchProblem(ctx, reqURL)
}

// GetProblem calls /problems/{id} on the problem service
func (c *Client) GetProblem(ctx context.Context, problemID string) (*Problem, error) {
	if problemID == "" {
		return nil, errors.New("problemID cannot be empty")
	}
	reqURL := fmt.Sprintf("%s/problems/%s", c.BaseURL, url.PathEscape(problemID))
	return c.fetchProblem(ctx, reqURL)
}

func (c *Client) fetchProblem(ctx context.Context, reqURL string) (*Problem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoProblems
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("ProblemService returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("problem service failed: %d", resp.StatusCode)
	}

	var out Problem
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
