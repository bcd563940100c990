package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-finder/internal/config"
	"recipe-finder/internal/logging"
	"recipe-finder/internal/recipe"

	"github.com/tidwall/gjson"
)

// Client is an interface for the recipe catalog API.
type Client interface {
	GetRecipe(ctx context.Context, id string) (recipe.WireRecipe, error)
	Search(ctx context.Context, query string) ([]recipe.WirePreview, error)
	CreateRecipe(ctx context.Context, rec recipe.WireRecipe) (recipe.WireRecipe, error)
}

// catalogClient is the concrete implementation of the catalog API client.
type catalogClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

// NewClient creates a new catalog API client.
func NewClient(cfg *config.Config) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &catalogClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    timeout,
	}
}

// GetRecipe fetches a single recipe by id.
func (c *catalogClient) GetRecipe(ctx context.Context, id string) (recipe.WireRecipe, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return recipe.WireRecipe{}, err
	}
	return decodeRecipe(body)
}

// Search fetches every preview matching query. An empty result is not an error.
func (c *catalogClient) Search(ctx context.Context, query string) ([]recipe.WirePreview, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	raw := gjson.GetBytes(body, "data.recipes")
	if !raw.Exists() {
		return []recipe.WirePreview{}, nil
	}
	var previews []recipe.WirePreview
	if err := json.Unmarshal([]byte(raw.Raw), &previews); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return previews, nil
}

// CreateRecipe uploads a new recipe and returns the stored version.
func (c *catalogClient) CreateRecipe(ctx context.Context, rec recipe.WireRecipe) (recipe.WireRecipe, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return recipe.WireRecipe{}, fmt.Errorf("failed to marshal recipe: %w", err)
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", c.baseURL, q.Encode())

	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return recipe.WireRecipe{}, err
	}
	return decodeRecipe(body)
}

// do performs one request raced against the client timeout.
func (c *catalogClient) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Log.WithField("method", method).Debugf("catalog request %s", redactKey(endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(body, "message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}

func (c *catalogClient) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request took too long! timeout after %s: %w", c.timeout, ErrTimeout)
	}
	return &NetworkError{Err: err}
}

func decodeRecipe(body []byte) (recipe.WireRecipe, error) {
	raw := gjson.GetBytes(body, "data.recipe")
	if !raw.Exists() || raw.Type == gjson.Null {
		return recipe.WireRecipe{}, ErrNotFound
	}
	var w recipe.WireRecipe
	if err := json.Unmarshal([]byte(raw.Raw), &w); err != nil {
		return recipe.WireRecipe{}, fmt.Errorf("failed to decode recipe: %w", err)
	}
	return w, nil
}

func redactKey(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "***")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
