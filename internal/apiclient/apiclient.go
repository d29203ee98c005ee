// Package apiclient talks to the commerce REST backend on behalf of a
// storefront session.
package apiclient

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

	"go.uber.org/zap"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	CSRFCookie    = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"

	refreshPath = "/auth/refresh"
)

// Credentials are the backend session cookies held for one storefront session.
type Credentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	CSRFToken    string `json:"csrfToken,omitempty"`
}

func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Out    any
	// Creds is updated in place when the backend sets or refreshes cookies.
	Creds *Credentials
}

// Doer is what services depend on; *Client implements it.
//
//go:generate mockgen -source=apiclient.go -destination=../mock/apiclient/apiclient_mock.go -package=mock
type Doer interface {
	Do(ctx context.Context, req Request) error
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.Named("apiclient"),
	}
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Do sends one request. A 401 on an authenticated request triggers exactly one
// silent refresh followed by one retry; if that fails the call returns
// ErrSessionExpired.
func (c *Client) Do(ctx context.Context, req Request) error {
	status, body, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.canRefresh(req) {
		c.logger.Debug("access token rejected, refreshing", zap.String("path", req.Path))
		if err := c.refresh(ctx, req.Creds); err != nil {
			c.logger.Info("session refresh failed", zap.Error(err))
			return ErrSessionExpired
		}

		status, body, err = c.send(ctx, req)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return ErrSessionExpired
		}
	}

	return decode(req.Path, status, body, req.Out)
}

func (c *Client) canRefresh(req Request) bool {
	return req.Creds != nil && req.Creds.RefreshToken != "" && req.Path != refreshPath
}

func (c *Client) refresh(ctx context.Context, creds *Credentials) error {
	status, body, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Creds:  creds,
	})
	if err != nil {
		return err
	}
	return decode(refreshPath, status, body, nil)
}

func (c *Client) send(ctx context.Context, req Request) (int, []byte, error) {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s body: %w", req.Path, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s request: %w", req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.Creds != nil {
		if req.Creds.AccessToken != "" {
			httpReq.AddCookie(&http.Cookie{Name: AccessCookie, Value: req.Creds.AccessToken})
		}
		if req.Creds.RefreshToken != "" {
			httpReq.AddCookie(&http.Cookie{Name: RefreshCookie, Value: req.Creds.RefreshToken})
		}
		if req.Creds.CSRFToken != "" && !isSafeMethod(req.Method) {
			httpReq.Header.Set(CSRFHeader, req.Creds.CSRFToken)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		c.logger.Warn("upstream request failed", zap.String("path", req.Path), zap.Error(err))
		return 0, nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", req.Path, ErrUnavailable)
	}

	if req.Creds != nil {
		capture(resp, req.Creds)
	}

	return resp.StatusCode, body, nil
}

func capture(resp *http.Response, creds *Credentials) {
	for _, ck := range resp.Cookies() {
		switch ck.Name {
		case AccessCookie:
			creds.AccessToken = ck.Value
		case RefreshCookie:
			creds.RefreshToken = ck.Value
		case CSRFCookie:
			creds.CSRFToken = ck.Value
		}
	}
	if tok := resp.Header.Get(CSRFHeader); tok != "" {
		creds.CSRFToken = tok
	}
}

func decode(path string, status int, body []byte, out any) error {
	var env envelope
	hasEnvelope := len(body) > 0 && json.Unmarshal(body, &env) == nil

	if status < 200 || status >= 300 {
		msg := http.StatusText(status)
		if hasEnvelope {
			switch {
			case env.Error != nil && env.Error.Message != "":
				msg = env.Error.Message
			case env.Message != "":
				msg = env.Message
			}
		}
		return &APIError{Status: status, Message: msg, Path: path}
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	payload := body
	if hasEnvelope && env.Success != nil {
		payload = env.Data
	}
	if len(payload) == 0 || string(payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, errors.Join(ErrUpstream, err))
	}
	return nil
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
