package catalogue

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

// HTTPCatalogue queries the voice service at GET {baseURL}/voices.
type HTTPCatalogue struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalogue creates a client for the voice service.
func NewHTTPCatalogue(baseURL string, timeout time.Duration) (*HTTPCatalogue, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid catalogue URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPCatalogue{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

func (c *HTTPCatalogue) Search(ctx context.Context, q Query) ([]Voice, error) {
	params := url.Values{}
	for k, v := range map[string]string{
		"provider": q.Provider,
		"language": q.Language,
		"gender":   q.Gender,
		"accent":   q.Accent,
	} {
		if v != "" && v != "any" {
			params.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice catalogue request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("voice catalogue returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode voice catalogue response: %w", err)
	}
	return out.Voices, nil
}
