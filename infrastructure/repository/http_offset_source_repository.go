package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ca-srg/opday/domain"
	"github.com/ca-srg/opday/infrastructure/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	httpSourceName = "http"

	// maxOffsetBodySize caps how much of a response is read
	maxOffsetBodySize = 64 * 1024
)

// HTTPOffsetSourceRepository reads the cutover from an HTTP configuration endpoint.
// The body is either the bare HH:MM:SS string or a JSON object holding it.
// Requests carry either an OAuth2 client credentials token or a static bearer token.
type HTTPOffsetSourceRepository struct {
	httpClient  *http.Client
	url         string
	bearerToken string
	jsonField   string
}

// NewHTTPOffsetSourceRepository creates a new HTTPOffsetSourceRepository instance
func NewHTTPOffsetSourceRepository(cfg *config.HTTPSourceConfig, timeout time.Duration) (*HTTPOffsetSourceRepository, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, domain.ErrInvalidInput("http.url", "the http source requires a URL")
	}

	jsonField := cfg.JSONField
	if jsonField == "" {
		jsonField = "value"
	}

	repo := &HTTPOffsetSourceRepository{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         cfg.URL,
		bearerToken: cfg.BearerToken,
		jsonField:   jsonField,
	}

	if cfg.TokenURL != "" {
		repo.httpClient = newClientCredentialsClient(cfg, repo.httpClient)
		repo.bearerToken = ""
	}

	return repo, nil
}

// newClientCredentialsClient returns a client that fetches and refreshes its
// access token from cfg.TokenURL. Token requests go through base.
func newClientCredentialsClient(cfg *config.HTTPSourceConfig, base *http.Client) *http.Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       splitScopes(cfg.Scopes),
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = base.Timeout
	return client
}

func splitScopes(raw string) []string {
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// Name identifies the source
func (r *HTTPOffsetSourceRepository) Name() string {
	return httpSourceName
}

// FetchOffset performs a GET and returns the cutover string
func (r *HTTPOffsetSourceRepository) FetchOffset(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(httpSourceName, err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if r.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(httpSourceName, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOffsetBodySize))
	if err != nil {
		return "", domain.ErrConfigFetchFailedWithCause(httpSourceName, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", domain.ErrConfigFetchStatus(httpSourceName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return r.extractOffset(resp.Header.Get("Content-Type"), body)
}

// extractOffset reads the cutover from a JSON object when the response is
// JSON (by content type or shape) and otherwise takes the trimmed body
func (r *HTTPOffsetSourceRepository) extractOffset(contentType string, body []byte) (string, error) {
	trimmed := strings.TrimSpace(string(body))

	mediaType, _, _ := mime.ParseMediaType(contentType)
	isJSON := mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") || strings.HasPrefix(trimmed, "{")
	if !isJSON {
		if trimmed == "" {
			return "", domain.ErrConfigFetchFailed(httpSourceName, "empty response body")
		}
		// Some endpoints quote the value even when serving text/plain
		if strings.HasPrefix(trimmed, `"`) {
			var s string
			if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
				return s, nil
			}
		}
		return trimmed, nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		// A JSON string literal is accepted as well
		var s string
		if strErr := json.Unmarshal(body, &s); strErr == nil {
			return s, nil
		}
		return "", domain.ErrConfigFetchFailedWithCause(httpSourceName, fmt.Errorf("failed to decode response: %w", err))
	}

	raw, ok := payload[r.jsonField]
	if !ok {
		return "", domain.ErrConfigFetchFailed(httpSourceName, fmt.Sprintf("response has no %q field", r.jsonField))
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", domain.ErrConfigFetchFailed(httpSourceName, fmt.Sprintf("field %q is not a string", r.jsonField))
	}
	return value, nil
}
