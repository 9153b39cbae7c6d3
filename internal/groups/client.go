package groups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

// Error classifications for the HTTP layer. ErrUnavailable covers every
// network, HTTP and decode failure reaching the remote document;
// ErrUserNotFound is a plain lookup miss on a document that loaded fine.
var (
	ErrUnavailable  = errors.New("remote group configuration unavailable")
	ErrUserNotFound = errors.New("user key not found")
)

// Client fetches the user/group configuration document. Every call is a
// fresh request with a bounded timeout: no cache and no retry, so group edits
// take effect on the next request and a failure fails that request only.
type Client struct {
	url      string
	client   *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// NewClient creates a configuration client for the given document URL.
func NewClient(url string, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		validate: validator.New(),
		logger:   logger,
	}
}

// Fetch downloads and validates the whole configuration document.
func (c *Client) Fetch(ctx context.Context) (Directory, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrUnavailable, resp.StatusCode, c.url)
	}

	var dir Directory
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}

	for key, userGroups := range dir {
		for name, g := range userGroups {
			if err := c.validate.Struct(g); err != nil {
				return nil, fmt.Errorf("%w: group %q of user %q: %v", ErrUnavailable, name, key, err)
			}
		}
	}

	c.logger.Info("remote group configuration fetched", "users", len(dir))
	return dir, nil
}

// UserGroups fetches the document and selects one user's groups.
func (c *Client) UserGroups(ctx context.Context, key string) (UserGroups, error) {
	dir, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	userGroups, ok := dir[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUserNotFound, key)
	}
	return userGroups, nil
}
