// Package gotrue implements identity.Service on top of the Supabase Auth
// (GoTrue) admin REST API.
package gotrue

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

	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// Client calls {baseURL}/auth/v1/admin/users with a service key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a client for the Supabase project at baseURL.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type createUserBody struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// CreateUser implements identity.Service.
func (c *Client) CreateUser(ctx context.Context, p identity.CreateParams) (*identity.User, error) {
	body, err := json.Marshal(createUserBody{
		Email:        p.Email,
		Password:     p.Password,
		EmailConfirm: p.EmailConfirm,
		UserMetadata: p.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("encode create user: %w", err)
	}

	var u identity.User
	if err := c.do(ctx, "create_user", http.MethodPost, "/auth/v1/admin/users", body, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, &identity.Error{Status: http.StatusBadGateway, Message: "identity service returned no user id"}
	}
	return &u, nil
}

// DeleteUser implements identity.Service.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream("identity", op, err, time.Since(start)) }()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := parseError(resp.StatusCode, raw)
		logger.From(ctx).Debug("identity call rejected",
			logger.Layer("client"), logger.Upstream("gotrue"), logger.Op(op),
			logger.Status(e.Status), logger.String("message", e.Message))
		return e
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// GoTrue has used several error shapes across versions.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func parseError(status int, raw []byte) *identity.Error {
	e := &identity.Error{Status: status}
	var b errorBody
	if json.Unmarshal(raw, &b) == nil {
		e.Code = b.ErrorCode
		if e.Code == "" {
			if s, ok := b.Code.(string); ok {
				e.Code = s
			}
		}
		for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
			if m != "" {
				e.Message = m
				break
			}
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
