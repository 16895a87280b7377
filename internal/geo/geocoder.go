package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Resolver переводит координаты в человекочитаемый адрес.
// Ошибка геокодера никогда не валит punch-in/punch-out: деградируем
// до форматированных координат.
type Resolver struct {
	baseURL string
	client  *http.Client
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 3 * time.Second},
	}
}

// Address — отображаемый адрес для (lat, lon). Всегда возвращает строку.
func (r *Resolver) Address(ctx context.Context, lat, lon float64) string {
	fallback := FormatCoords(lat, lon)
	if r == nil || r.baseURL == "" {
		return fallback
	}

	u := fmt.Sprintf("%s/reverse?lat=%s&lon=%s",
		r.baseURL,
		url.QueryEscape(fmt.Sprintf("%.6f", lat)),
		url.QueryEscape(fmt.Sprintf("%.6f", lon)),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fallback
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fallback
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return fallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fallback
	}
	var out struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(body, &out); err != nil || strings.TrimSpace(out.DisplayName) == "" {
		return fallback
	}
	return out.DisplayName
}

func FormatCoords(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
