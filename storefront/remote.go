package storefront

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"go-storefront/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Remote is the backend the stores synchronise with
type Remote interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (string, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error)
	PlaceOrder(ctx context.Context, req models.CheckoutRequest) (*models.Order, error)
}

// Client talks to the backend's /api surface over HTTP.
//
// Connection failures, 5xx responses and 404s that do not come from the API
// itself (no JSON error body) are reported as ErrNetworkUnavailable. Every
// other non-2xx response becomes a *RemoteError.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
}

// NewClient returns a client for the backend rooted at baseURL,
// for example "http://localhost:8000"
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		http:    httpClient,
	}
}

// SetTokenSource makes the client send the session token returned by fn
func (c *Client) SetTokenSource(fn func() string) {
	c.token = fn
}

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", p, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Client) UpdateProduct(ctx context.Context, p models.Product) error {
	return c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(p.ID), p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password})
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/register", models.RegisterRequest{Email: email, Password: password, Name: name})
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	return c.auth(ctx, "/auth/google", models.GoogleLoginRequest{Token: idToken})
}

func (c *Client) PlaceOrder(ctx context.Context, req models.CheckoutRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) auth(ctx context.Context, path string, body interface{}) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &res); err != nil {
		return nil, err
	}
	if !res.User.Complete() {
		return nil, unavailable("incomplete identity from %s", path)
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return unavailable("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable("%s %s: reading body: %v", method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return unavailable("%s %s: malformed response: %v", method, path, err)
		}
		return nil
	}

	if resp.StatusCode >= 500 {
		return unavailable("%s %s: status %d", method, path, resp.StatusCode)
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	decodeErr := json.Unmarshal(data, &apiErr)
	if resp.StatusCode == http.StatusNotFound && (decodeErr != nil || apiErr.Error == "") {
		// No JSON error body: the route itself is missing, so there is no backend here
		return unavailable("%s %s: status 404", method, path)
	}
	if apiErr.Error == "" {
		apiErr.Error = http.StatusText(resp.StatusCode)
	}
	return &RemoteError{Status: resp.StatusCode, Message: apiErr.Error}
}
