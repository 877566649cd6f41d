package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-verify-link/internal/config"
	"github.com/go-verify-link/internal/domain"
)

// Client talks to the Discord REST API for the two effects this service
// needs: granting the configured role and sending direct messages.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	guildID    string
	roleName   string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.DiscordBaseURL,
		token:      cfg.DiscordBotToken,
		guildID:    cfg.DiscordGuildID,
		roleName:   cfg.DiscordRoleName,
	}
}

// GrantRole assigns the configured role to the guild member. The role is
// resolved by name at call time; a missing role or member maps to
// domain.ErrNotFound and a permission failure to domain.ErrForbidden.
func (c *Client) GrantRole(ctx context.Context, requesterID string) error {
	roleID, err := c.lookupRoleID(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/guilds/%s/members/%s/roles/%s", c.baseURL, c.guildID, requesterID, roleID)
	resp, err := c.do(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("grant role: member %s or role %s missing: %w", requesterID, roleID, domain.ErrNotFound)
	case http.StatusForbidden:
		return fmt.Errorf("grant role: %w", domain.ErrForbidden)
	default:
		return fmt.Errorf("grant role: unexpected status %d", resp.StatusCode)
	}
}

// SendDirectMessage opens (or reuses) the DM channel with the user and
// posts the given text. Users who block DMs map to domain.ErrUndeliverable.
func (c *Client) SendDirectMessage(ctx context.Context, requesterID, text string) error {
	channel := struct {
		ID string `json:"id"`
	}{}
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/users/@me/channels",
		map[string]string{"recipient_id": requesterID})
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		drain(resp)
		return fmt.Errorf("open dm channel: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&channel); err != nil {
		resp.Body.Close()
		return fmt.Errorf("decode dm channel: %w", err)
	}
	resp.Body.Close()

	resp, err = c.do(ctx, http.MethodPost, fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channel.ID),
		map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	defer drain(resp)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		// The user disallows DMs from this server.
		return fmt.Errorf("send dm to %s: %w", requesterID, domain.ErrUndeliverable)
	default:
		return fmt.Errorf("send dm: unexpected status %d", resp.StatusCode)
	}
}

// lookupRoleID resolves the configured role name against the guild's
// current role list. Done per call: the role can be recreated with a new
// ID without restarting this service.
func (c *Client) lookupRoleID(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, c.guildID), nil)
	if err != nil {
		return "", fmt.Errorf("list roles: %w", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("list roles: unexpected status %d", resp.StatusCode)
	}

	var roles []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&roles); err != nil {
		return "", fmt.Errorf("decode roles: %w", err)
	}
	for _, r := range roles {
		if r.Name == c.roleName {
			return r.ID, nil
		}
	}
	return "", fmt.Errorf("role %q not found in guild %s: %w", c.roleName, c.guildID, domain.ErrNotFound)
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
