// Package client talks to the cash-closing API on behalf of agents and
// administrators. Calls are made once and never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/modules/auth"
	"github.com/georgemunganga/cloture-backend/internal/modules/closing"
	"github.com/georgemunganga/cloture-backend/internal/modules/session"
	"github.com/georgemunganga/cloture-backend/internal/modules/user"
	"github.com/rs/zerolog"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is bound to one base URL. Requests carry the token of Session once
// Login succeeded.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
	session session.Session
}

func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Session returns the current session. It is empty before Login and after Logout.
func (c *Client) Session() session.Session { return c.session }

// Login opens a session for pseudo.
func (c *Client) Login(ctx context.Context, pseudo, password string) (session.Session, error) {
	body := map[string]string{"pseudo": pseudo, "mot_de_passe": password}
	var resp auth.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/users/connexion", body, &resp); err != nil {
		return session.Session{}, err
	}
	sess := resp.User
	sess.Token = resp.Token
	c.session = sess
	c.log.Info().Str("pseudo", sess.Pseudo).Str("role", string(sess.Role)).Msg("connected")
	return sess, nil
}

// Logout closes the session. The local session is cleared even when the API
// call fails.
func (c *Client) Logout(ctx context.Context) error {
	pseudo := c.session.Pseudo
	defer c.session.Clear()
	if pseudo == "" {
		return nil
	}
	var resp auth.LogoutResponse
	return c.do(ctx, http.MethodPost, "/users/deconnexion", map[string]string{"pseudo": pseudo}, &resp)
}

// CreateTransaction stores a closing. It lets a Client act as the capture
// workflow's Submitter.
func (c *Client) CreateTransaction(ctx context.Context, rec closing.Record) (*closing.Record, error) {
	var stored closing.Record
	if err := c.do(ctx, http.MethodPost, "/transactions", rec, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListTransactions returns every stored closing in creation order.
func (c *Client) ListTransactions(ctx context.Context) ([]closing.Record, error) {
	var resp closing.ListResponse
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// List lets a Client feed the report package.
func (c *Client) List(ctx context.Context) ([]closing.Record, error) {
	return c.ListTransactions(ctx)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, rec closing.Record) (*closing.Record, error) {
	var updated closing.Record
	if err := c.do(ctx, http.MethodPatch, "/transactions/"+url.PathEscape(id), rec, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil)
}

// Register creates an account. The API ignores role unless the session is an
// administrator's.
func (c *Client) Register(ctx context.Context, pseudo, password string, role session.Role) (*user.User, error) {
	body := map[string]string{"pseudo": pseudo, "mot_de_passe": password, "role": string(role)}
	var u user.User
	if err := c.do(ctx, http.MethodPost, "/users/inscription", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var resp user.ListResponse
	if err := c.do(ctx, http.MethodGet, "/users/utilisateurs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, upd user.Update) (*user.User, error) {
	var u user.User
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.log.Warn().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg(apiErr.Message)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts "error" or "message" from a JSON error body, falling
// back to the raw text.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 64<<10))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
