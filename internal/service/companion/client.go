// Package companion talks to the companion node: reachability probe and
// the auto-post hand-off.
package companion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ViralGen/internal/domain/models"
	xhttp "ViralGen/pkg/http"
)

type Client struct {
	http *xhttp.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: xhttp.NewClient(xhttp.WithTimeout(timeout))}
}

// AutoPost sends item and credentials to {backendURL}/auto-post.
func (c *Client) AutoPost(ctx context.Context, backendURL string, req models.AutoPostRequest) error {
	if backendURL == "" {
		return fmt.Errorf("auto-post: backend url not set")
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    strings.TrimRight(backendURL, "/") + "/auto-post",
		Body:   req,
	}, nil)
	if err != nil {
		return fmt.Errorf("auto-post: %w", err)
	}
	return nil
}

// Ping issues GET backendURL and succeeds on any 2xx.
func (c *Client) Ping(ctx context.Context, backendURL string) error {
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    backendURL,
	}, nil)
}
