// Package api talks to the Wall of Fame backend. It is the only place that
// knows the base address, how bodies are encoded and how the bearer
// credential is attached.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/walloffame/wof/internal/common"
	"github.com/walloffame/wof/internal/models"
)

const (
	DefaultBaseURL = "https://wall-of-fame-api.onrender.com"

	winsPath     = "/api/wins"
	myWinsPath   = "/api/wins/me"
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	GetCredential() string
	IsLoggedIn() bool
}

// Client issues requests against one backend.
type Client struct {
	baseURL string
	session SessionReader
	rest    *resty.Client
}

type clientOptions struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

type Option func(*clientOptions)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// NewClient returns a client for baseURL that authorizes protected calls
// with the credential held by session.
func NewClient(baseURL string, session SessionReader, opts ...Option) *Client {
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}

	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	rest := resty.New()
	if options.httpClient != nil {
		rest = resty.NewWithClient(options.httpClient)
	}
	if options.timeout > 0 {
		rest.SetTimeout(options.timeout)
	}
	if len(options.userAgent) > 0 {
		rest.SetHeader("User-Agent", options.userAgent)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		rest:    rest,
	}

	c.rest.SetHeader("Accept", "application/json")
	c.rest.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call describes one backend operation.
type call struct {
	op         string
	method     string
	path       string
	protected  bool
	defaultMsg string
	args       common.HTTPArguments
}

// do sends the request and returns the success status and raw body.
// Protected calls without a session fail with ErrAuthRequired before
// anything is sent.
func (c *Client) do(ctx context.Context, cl call) (int, []byte, error) {
	args := cl.args
	args.Method = cl.method
	args.URL = c.baseURL + cl.path

	if cl.protected {
		// Read once so the header matches the check.
		credential := c.session.GetCredential()
		if len(credential) == 0 {
			logrus.WithFields(logrus.Fields{
				"op": cl.op,
			}).Debugln("Refusing protected request without a session")
			return 0, nil, ErrAuthRequired
		}
		args.BearerToken = credential
	}

	logrus.WithFields(logrus.Fields{
		"op":     cl.op,
		"method": cl.method,
		"url":    args.URL,
	}).Debugln("Sending request")

	resp, err := common.InvokeHttpRequestWithClient(ctx, c.rest, &args)
	if err != nil {
		return 0, nil, &NetworkError{Op: cl.op, Message: cl.defaultMsg, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"op":     cl.op,
		"status": resp.StatusCode(),
	}).Debugln("Received response")

	if !resp.IsSuccess() {
		return resp.StatusCode(), nil, &APIError{
			Op:         cl.op,
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(resp.Body(), cl.defaultMsg),
		}
	}

	return resp.StatusCode(), resp.Body(), nil
}

// errorMessage prefers the backend's {"error": "..."} and falls back to def.
func errorMessage(body []byte, def string) string {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return def
	}
	if msg := strings.TrimSpace(errResp.Error); len(msg) > 0 {
		return msg
	}
	return def
}

// decode parses a success body into out. An empty body leaves out as is.
func decode(op string, status int, body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		logrus.WithError(err).WithField("op", op).Debugln("Failed to parse response body")
		return &APIError{Op: op, StatusCode: status, Message: msgInvalidResponse}
	}
	return nil
}
