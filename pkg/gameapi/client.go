package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	werrors "github.com/matzehuels/wordtower/pkg/errors"
	"github.com/matzehuels/wordtower/pkg/httputil"
	"github.com/matzehuels/wordtower/pkg/observability"
)

const (
	// TokenHeader carries the player token on every request.
	TokenHeader = "X-Auth-Token"

	defaultTimeout    = 10 * time.Second
	defaultRetries    = 3
	defaultRetryDelay = time.Second
	maxBodySize       = 4 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string

	// Timeout bounds a single HTTP exchange. Zero means 10s.
	Timeout time.Duration

	// Retries is the number of attempts for retryable failures. Zero
	// means 3; use 1 to disable retries.
	Retries    int
	RetryDelay time.Duration

	HTTPClient *http.Client
	Logger     *log.Logger

	// Recorder, if set, receives every exchange with the service.
	Recorder Recorder
}

// Client talks to the game service. It is safe for concurrent use.
type Client struct {
	base     *url.URL
	token    string
	http     *http.Client
	retries  int
	delay    time.Duration
	logger   *log.Logger
	recorder Recorder
}

// NewClient validates opts and returns a Client.
func NewClient(opts Options) (*Client, error) {
	if err := werrors.ValidateURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if err := werrors.ValidateToken(opts.Token); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeInvalidInput, err, "parse base URL")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Client{
		base:     base,
		token:    opts.Token,
		http:     opts.HTTPClient,
		retries:  opts.Retries,
		delay:    opts.RetryDelay,
		logger:   opts.Logger,
		recorder: opts.Recorder,
	}, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

// Words fetches the current inventory and round state.
func (c *Client) Words(ctx context.Context) (*WordsResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/words", nil)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(wordsResponseSchema, body, werrors.ErrCodeGameRejected); err != nil {
		return nil, err
	}
	var out WordsResponse
	if err := decode("/api/words", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Build submits words for the current tower.
func (c *Client) Build(ctx context.Context, req BuildRequest) (*PlayerWordsResponse, error) {
	if req.Words == nil {
		req.Words = []WordCommand{}
	}
	if err := ValidateBuildRequest(req); err != nil {
		return nil, err
	}
	var out PlayerWordsResponse
	if err := c.call(ctx, http.MethodPost, "/api/build", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Shuffle exchanges the inventory for a fresh one.
func (c *Client) Shuffle(ctx context.Context) (*PlayerWordsResponse, error) {
	var out PlayerWordsResponse
	if err := c.call(ctx, http.MethodPost, "/api/shuffle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Towers lists the current and finished towers.
func (c *Client) Towers(ctx context.Context) (*TowersResponse, error) {
	var out TowersResponse
	if err := c.call(ctx, http.MethodGet, "/api/towers", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rounds lists the game rounds.
func (c *Client) Rounds(ctx context.Context) (*RoundsResponse, error) {
	var out RoundsResponse
	if err := c.call(ctx, http.MethodGet, "/api/rounds", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	body, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	return decode(path, body, out)
}

// do sends in as JSON, retrying transient failures, and returns the raw
// response body.
func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return nil, werrors.Wrap(werrors.ErrCodeInternal, err, "encode %s request", path)
		}
	}

	var body []byte
	err := httputil.Retry(ctx, c.retries, c.delay, func() error {
		var err error
		body, err = c.exchange(ctx, method, path, payload)
		return err
	})
	return body, err
}

func decode(path string, body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return werrors.Wrap(werrors.ErrCodeGameRejected, err, "decode %s response", path)
	}
	return nil
}

// exchange performs one HTTP round trip and maps the status to an error.
func (c *Client) exchange(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	hooks := observability.HTTP()
	host := c.base.Host
	start := time.Now()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeInternal, err, "create request")
	}
	req.Header.Set(TokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hooks.OnRequest(ctx, method, host, path)
	c.logger.Debug("game request", "method", method, "path", path, "bytes", len(payload))

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		c.record(Exchange{Time: start, Method: method, Path: path, Request: payload, Err: err.Error(), Duration: time.Since(start)})
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		code := werrors.ErrCodeNetwork
		if isTimeout(err) {
			code = werrors.ErrCodeTimeout
		}
		return nil, httputil.Retryable(werrors.Wrap(code, err, "%s %s", method, path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, elapsed)
	c.record(Exchange{
		Time: start, Method: method, Path: path, Status: resp.StatusCode,
		Request: payload, Response: body, Duration: elapsed,
	})
	if err != nil {
		return nil, httputil.Retryable(werrors.Wrap(werrors.ErrCodeNetwork, err, "read %s response", path))
	}

	if err := checkStatus(resp, body, method, path); err != nil {
		c.logger.Debug("game request failed", "path", path, "status", resp.StatusCode, "err", err)
		return nil, err
	}
	return body, nil
}

func (c *Client) record(e Exchange) {
	if c.recorder != nil {
		c.recorder.RecordExchange(e)
	}
}

// checkStatus maps a non-2xx response to a coded error. 429 and 5xx are
// retryable.
func checkStatus(resp *http.Response, body []byte, method, path string) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	var pub PublicError
	_ = json.Unmarshal(body, &pub)
	msg := pub.Text()
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	rej := &RejectedError{Status: code, Message: msg}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return werrors.Wrap(werrors.ErrCodeUnauthorized, rej, "%s %s", method, path)
	case code == http.StatusNotFound:
		return werrors.Wrap(werrors.ErrCodeNotFound, rej, "%s %s", method, path)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		rl := &werrors.RateLimitedError{RetryAfter: retryAfter, Message: msg}
		return httputil.Retryable(werrors.Wrap(werrors.ErrCodeRateLimited, rl, "%s %s", method, path))
	case code >= 500:
		return httputil.Retryable(werrors.Wrap(werrors.ErrCodeNetwork, rej, "%s %s", method, path))
	}

	if oob, ok := ParseOutOfBounds(msg); ok {
		rej.OutOfBounds = &oob
		return werrors.Wrap(werrors.ErrCodeOutOfBounds, rej, "%s %s", method, path)
	}
	return werrors.Wrap(werrors.ErrCodeGameRejected, rej, "%s %s", method, path)
}

// RejectedError is a non-2xx answer from the service.
type RejectedError struct {
	Status      int
	Message     string
	OutOfBounds *OutOfBounds
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Rejection returns the service's rejection in err's chain, if any.
func Rejection(err error) (*RejectedError, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// IsGoAway reports whether err comes from the server closing the
// connection with an HTTP/2 GOAWAY frame. Such requests can be retried at
// once.
func IsGoAway(err error) bool {
	return err != nil && strings.Contains(err.Error(), "GOAWAY")
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
