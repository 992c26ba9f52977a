// Package resend implements mail.Sender and mail.Lister on the Resend REST API.
package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

// DefaultBaseURL is the public Resend API.
const DefaultBaseURL = "https://api.resend.com"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var (
	_ mail.Sender = (*Client)(nil)
	_ mail.Lister = (*Client)(nil)
)

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type attachmentBody struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type sendBody struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Attachments []attachmentBody `json:"attachments,omitempty"`
}

// Send posts the message to /emails.
func (c *Client) Send(ctx context.Context, m mail.Message) (*mail.SendResult, error) {
	body := sendBody{From: m.From, To: m.To, Subject: m.Subject, HTML: m.HTML}
	for _, a := range m.Attachments {
		body.Attachments = append(body.Attachments, attachmentBody{
			Filename: a.Filename,
			Content:  base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode email: %w", err)
	}

	var res mail.SendResult
	if err := c.do(ctx, "send", http.MethodPost, "/emails", raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListEmails returns the records under "data" untouched.
func (c *Client) ListEmails(ctx context.Context, limit int) ([]json.RawMessage, error) {
	path := "/emails"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var res struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		res.Data = []json.RawMessage{}
	}
	return res.Data, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream("email", op, err, time.Since(start)) }()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := parseError(resp.StatusCode, raw)
		logger.From(ctx).Debug("email call rejected",
			logger.Layer("client"), logger.Upstream("resend"), logger.Op(op),
			logger.Status(e.Status), logger.String("name", e.Name), logger.String("message", e.Message))
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

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func parseError(status int, raw []byte) *mail.Error {
	e := &mail.Error{Status: status}
	var b errorBody
	if json.Unmarshal(raw, &b) == nil {
		e.Name = b.Name
		e.Message = b.Message
		if e.Message == "" {
			e.Message = b.Error
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
