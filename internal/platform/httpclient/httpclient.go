// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package httpclient provides the shared outbound HTTP client used by every
source adapter.

It wraps 'go-resty/resty' with retry on transient failures (transport errors,
429 and 5xx) and maps failures onto the source failure taxonomy:

  - Transport errors and non-2xx responses wrap [source.ErrNetwork].
  - Undecodable bodies wrap [source.ErrParse].

Timeouts are owned here; the aggregation layer adds none of its own.
*/
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/taibuivan/mangabridge/internal/platform/constants"
	"github.com/taibuivan/mangabridge/internal/source"
)

// Options configures a [Client].
type Options struct {
	Timeout    time.Duration
	RetryCount int
	UserAgent  string
	Logger     *slog.Logger
}

// Client performs outbound requests on behalf of adapters. It is safe for
// concurrent use.
type Client struct {
	resty *resty.Client
}

// New constructs a [Client] from options, applying defaults for zero values.
func New(options Options) *Client {
	if options.Timeout <= 0 {
		options.Timeout = constants.DefaultUpstreamTimeout
	}
	if options.UserAgent == "" {
		options.UserAgent = constants.DefaultUserAgent
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	client := resty.New().
		SetTimeout(options.Timeout).
		SetHeader("User-Agent", options.UserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.5").
		SetLogger(restyLogger{logger: options.Logger}).
		SetRetryCount(options.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		AddRetryCondition(func(response *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			status := response.StatusCode()
			return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
		})

	return &Client{resty: client}
}

// HTTPClient exposes the underlying [*http.Client] for libraries that need
// one (e.g. the GraphQL client), sharing its timeout and transport.
func (c *Client) HTTPClient() *http.Client {
	return c.resty.GetClient()
}

// # Request Options

// RequestOption customizes a single outbound request.
type RequestOption func(*resty.Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(request *resty.Request) { request.SetHeader(key, value) }
}

// WithQuery adds query parameters. Repeated keys (e.g. "includes[]") are preserved.
func WithQuery(values url.Values) RequestOption {
	return func(request *resty.Request) { request.SetQueryParamsFromValues(values) }
}

// WithCookie attaches a cookie.
func WithCookie(name, value string) RequestOption {
	return func(request *resty.Request) {
		request.SetCookie(&http.Cookie{Name: name, Value: value})
	}
}

// WithForm sends values as an url-encoded form body.
func WithForm(values map[string]string) RequestOption {
	return func(request *resty.Request) { request.SetFormData(values) }
}

// # Calls

// Get performs a GET and returns the raw body of a successful response.
func (c *Client) Get(ctx context.Context, rawURL string, options ...RequestOption) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, options)
}

// Post performs a POST and returns the raw body of a successful response.
func (c *Client) Post(ctx context.Context, rawURL string, options ...RequestOption) ([]byte, error) {
	return c.do(ctx, http.MethodPost, rawURL, options)
}

// GetJSON performs a GET and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, rawURL string, target any, options ...RequestOption) error {
	options = append([]RequestOption{WithHeader("Accept", "application/json")}, options...)
	body, err := c.Get(ctx, rawURL, options...)
	if err != nil {
		return err
	}
	return DecodeJSON(body, target)
}

// GetDocument performs a GET and parses the body as HTML.
func (c *Client) GetDocument(ctx context.Context, rawURL string, options ...RequestOption) (*goquery.Document, error) {
	options = append([]RequestOption{WithHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")}, options...)
	body, err := c.Get(ctx, rawURL, options...)
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// PostDocument performs a POST and parses the body as HTML.
func (c *Client) PostDocument(ctx context.Context, rawURL string, options ...RequestOption) (*goquery.Document, error) {
	body, err := c.Post(ctx, rawURL, options...)
	if err != nil {
		return nil, err
	}
	return ParseDocument(body)
}

// Stream performs a GET without buffering the body. The caller must close
// the returned response body.
func (c *Client) Stream(ctx context.Context, rawURL string, options ...RequestOption) (*http.Response, error) {
	request := c.resty.R().SetContext(ctx).SetDoNotParseResponse(true)
	for _, option := range options {
		option(request)
	}

	response, err := request.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", source.ErrNetwork, redact(rawURL), err)
	}

	raw := response.RawResponse
	if !response.IsSuccess() {
		if raw != nil && raw.Body != nil {
			_ = raw.Body.Close()
		}
		return nil, fmt.Errorf("%w: GET %s: %s", source.ErrNetwork, redact(rawURL), response.Status())
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, options []RequestOption) ([]byte, error) {
	request := c.resty.R().SetContext(ctx)
	for _, option := range options {
		option(request)
	}

	response, err := request.Execute(method, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", source.ErrNetwork, method, redact(rawURL), err)
	}
	if !response.IsSuccess() {
		return nil, fmt.Errorf("%w: %s %s: %s", source.ErrNetwork, method, redact(rawURL), response.Status())
	}
	return response.Body(), nil
}

// # Decoding

// DecodeJSON unmarshals body into target, wrapping failures in [source.ErrParse].
func DecodeJSON(body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: %v", source.ErrParse, err)
	}
	return nil
}

// ParseDocument parses body as HTML, wrapping failures in [source.ErrParse].
func ParseDocument(body []byte) (*goquery.Document, error) {
	document, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrParse, err)
	}
	return document, nil
}

// redact drops the query string so logged errors never carry api keys.
func redact(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	return parsed.String()
}

// restyLogger routes resty's internal logging into slog at debug level.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Debug("upstream_client_error", slog.String("detail", fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Debug("upstream_client_warning", slog.String("detail", fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug("upstream_client_debug", slog.String("detail", fmt.Sprintf(format, v...)))
}
