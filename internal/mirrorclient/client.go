package mirrorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client — отправка записей в резервное зеркало. Заменяет dual-write
// хуки старой системы: вызывается только из дренажа outbox, поэтому
// каждая неудача видима и будет повторена.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled — зеркало настроено.
func (c *Client) Enabled() bool { return c != nil && c.baseURL != "" }

// Push отправляет одну запись: POST {base}/mirror/{entity}.
func (c *Client) Push(ctx context.Context, entity string, payload json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/mirror/"+entity, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<12))
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("mirror %s: http %d: %s", entity, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
