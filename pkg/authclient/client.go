// Package authclient is a Go client for the panchayat auth API. It keeps the
// session cookie in a jar and mirrors the signed-in profile to a Store.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultCookieName = "token"

// ErrNotSignedIn is returned by calls that need a session when there is none.
var ErrNotSignedIn = errors.New("not signed in")

// ErrSessionRejected is returned when the service redirects a navigation to
// the login page. The local session has been cleared.
var ErrSessionRejected = errors.New("session rejected")

var dashboards = map[string]string{
	"citizen":  "/citizen/dashboard",
	"employee": "/employee/dashboard",
	"monitor":  "/monitor/dashboard",
	"admin":    "/adminpanel",
}

// APIError is a failed AuthResponse.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth api: %d %s", e.Status, e.Message)
}

// SignupRequest mirrors the signup payload.
type SignupRequest struct {
	Name                     string `json:"name"`
	Email                    string `json:"email"`
	Password                 string `json:"password"`
	Gender                   string `json:"gender"`
	DOB                      string `json:"dob"`
	HouseholdID              int64  `json:"household_id"`
	EducationalQualification string `json:"educational_qualification"`
	IsEmployee               bool   `json:"isEmployee,omitempty"`
	Role                     string `json:"role,omitempty"`
}

type authResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *User          `json:"data,omitempty"`
	Token   string         `json:"token,omitempty"`
	Errors  map[string]any `json:"errors,omitempty"`
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client. Its jar and redirect policy
// are overridden.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(c *Client) { c.cookieName = name }
}

// Client talks to the auth API on behalf of one user.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	store      Store
	cookieName string

	mu      sync.RWMutex
	session *Session
}

// New builds a client for the service at baseURL.
func New(baseURL string, store Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    u,
		http:       &http.Client{Timeout: 10 * time.Second},
		store:      store,
		cookieName: defaultCookieName,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = jar
	c.http.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c, nil
}

// Restore loads a persisted session. Nothing is restored unless a token is
// present.
func (c *Client) Restore() (*User, error) {
	if c.store == nil {
		return nil, nil
	}
	session, err := c.store.Load()
	if err != nil || session == nil {
		return nil, err
	}

	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: c.cookieName, Value: session.Token, Path: "/"}})
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	user := session.User
	return &user, nil
}

// CurrentUser returns the mirrored profile, or nil when signed out.
func (c *Client) CurrentUser() *User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	user := c.session.User
	return &user
}

// Login signs in and persists the session.
func (c *Client) Login(ctx context.Context, email, password, userType string) (*User, error) {
	resp, err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
		"userType": userType,
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Token == "" {
		return nil, errors.New("auth api: login response without session")
	}

	session := &Session{Token: resp.Token, User: *resp.Data}
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Save(session); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}

	user := session.User
	return &user, nil
}

// Signup registers a citizen. It does not sign in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	resp, err := c.postJSON(ctx, "/api/auth/signup", req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Logout revokes the session server side and always clears local state.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.postJSON(ctx, "/api/auth/logout", struct{}{})
	if clearErr := c.clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// Me asks the service who the session belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Dashboard opens the dashboard of the signed-in role and returns its body.
func (c *Client) Dashboard(ctx context.Context) (map[string]any, error) {
	user := c.CurrentUser()
	if user == nil {
		return nil, ErrNotSignedIn
	}
	path, ok := dashboards[user.UserType]
	if !ok {
		return nil, fmt.Errorf("no dashboard for role %q", user.UserType)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 && httpResp.StatusCode < 400 {
		if location := httpResp.Header.Get("Location"); strings.HasPrefix(location, "/login") {
			if err := c.clear(); err != nil {
				return nil, err
			}
			return nil, ErrSessionRejected
		}
		return nil, fmt.Errorf("unexpected redirect to %s", httpResp.Header.Get("Location"))
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: httpResp.StatusCode, Message: http.StatusText(httpResp.StatusCode)}
	}

	var body map[string]any
	if err := json.NewDecoder(httpResp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return body, nil
}

func (c *Client) clear() error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: c.cookieName, Value: "", Path: "/", MaxAge: -1}})
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*authResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	target := c.baseURL.ResolveReference(&url.URL{Path: path})
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target.String(), body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target.String(), nil)
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	c.mu.RLock()
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	c.mu.RUnlock()
	return req, nil
}

func (c *Client) do(req *http.Request) (*authResponse, error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	var out authResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, &APIError{Status: httpResp.StatusCode, Message: http.StatusText(httpResp.StatusCode)}
	}
	if httpResp.StatusCode >= 400 || out.Code != 0 {
		message := out.Message
		if message == "" {
			message = http.StatusText(httpResp.StatusCode)
		}
		return nil, &APIError{Status: httpResp.StatusCode, Message: message, Errors: out.Errors}
	}
	return &out, nil
}
