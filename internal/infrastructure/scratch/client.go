package scratch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-verify-link/internal/config"
	"github.com/go-verify-link/internal/domain"
)

// Client fetches project comments from the public Scratch API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	projectOwner string
	projectID    string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.FetchTimeout},
		baseURL:      cfg.ScratchBaseURL,
		projectOwner: cfg.ScratchProjectOwner,
		projectID:    cfg.ScratchProjectID,
	}
}

type commentPayload struct {
	Content string `json:"content"`
	Author  struct {
		Username string `json:"username"`
	} `json:"author"`
}

// FetchComments returns the currently-visible top-level comments on the
// configured project. Failures are transient: the caller skips the cycle
// and retries on the next one.
func (c *Client) FetchComments(ctx context.Context) ([]domain.Comment, error) {
	url := fmt.Sprintf("%s/users/%s/projects/%s/comments?offset=0&limit=40",
		c.baseURL, c.projectOwner, c.projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build comments request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch comments: unexpected status %d", resp.StatusCode)
	}

	var payload []commentPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]domain.Comment, 0, len(payload))
	for _, p := range payload {
		comments = append(comments, domain.Comment{
			AuthorHandle: p.Author.Username,
			Text:         p.Content,
		})
	}
	return comments, nil
}
