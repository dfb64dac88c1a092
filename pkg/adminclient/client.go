// Package adminclient is a Go client for the admin API. It holds the session
// token issued at login, attaches it to every request and forgets it as soon
// as the server answers 401 or 403.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

const (
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Session is the client-held login state. ExpiresAtHint is advisory: the
// server remains the authority on whether the token is still honored.
type Session struct {
	Token         string
	Role          string
	ExpiresAtHint time.Time
}

func (s Session) Valid() bool {
	return s.Token != ""
}

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// APIError carries the server's error response. Error returns the server
// message unchanged so it can be shown to the user as is.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	session Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSession restores a previously saved session.
func WithSession(s Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Logout forgets the session. Tokens are stateless, so nothing is sent.
func (c *Client) Logout() {
	c.setSession(Session{})
}

func (c *Client) Login(ctx context.Context, email, password string) (*Account, error) {
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		Admin     Account   `json:"admin"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.setSession(Session{
		Token:         resp.Token,
		Role:          resp.Admin.Role,
		ExpiresAtHint: resp.ExpiresAt,
	})
	return &resp.Admin, nil
}

// Signup files an access request. It does not log in.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, nil)
}

func (c *Client) Me(ctx context.Context) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/api/admin-users", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) Approve(ctx context.Context, id string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodPut, "/api/admin-users/"+url.PathEscape(id)+"/approve", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) ChangeRole(ctx context.Context, id, role string) (*Account, error) {
	var account Account
	err := c.do(ctx, http.MethodPut, "/api/admin-users/"+url.PathEscape(id)+"/role", map[string]string{"role": role}, &account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin-users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s := c.Session(); s.Valid() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.Logout()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
