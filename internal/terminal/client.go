package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client calls the Terminal coffee API with the service key, or with a
// per-player token when one is supplied. No retry here; retry policy
// belongs to the caller.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, serviceKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// get fetches path and decodes the JSON body into T.
// token == "" berarti pakai service key.
func get[T any](ctx context.Context, c *Client, path, token string) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return out, err
	}
	bearer := c.serviceKey
	if token != "" {
		bearer = token
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("terminal request failed", zap.String("path", path), zap.Error(err))
		return out, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return out, statusError(resp.StatusCode, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return out, nil
}

// Products lists the full remote catalog using the service key.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	resp, err := get[ProductResponse](ctx, c, "/product", "")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Addresses lists shipping addresses on file for the token's account.
func (c *Client) Addresses(ctx context.Context, token string) ([]Address, error) {
	resp, err := get[AddressResponse](ctx, c, "/address", token)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Cards lists payment methods on file for the token's account.
func (c *Client) Cards(ctx context.Context, token string) ([]Card, error) {
	resp, err := get[CardResponse](ctx, c, "/card", token)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CheckProfile does an existence check on the token: any 2xx means the
// token belongs to a real account.
func (c *Client) CheckProfile(ctx context.Context, token string) error {
	_, err := get[ProfileResponse](ctx, c, "/profile", token)
	return err
}
