// SPDX-License-Identifier: GPL-3.0-or-later
package emailguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 3
	DefaultBackoff = 2 * time.Second

	testsPath = "/inbox-placement-tests"
)

var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client talks to the inbox placement test API with a bearer token.
type Client struct {
	client  *http.Client
	baseUrl string
	appUrl  string
	token   string

	retries int
	backoff time.Duration
	limiter *rate.Limiter

	l *logrus.Logger
}

type Option func(c *Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// WithRetries sets how often a request is repeated after a 429/5xx answer or
// a transport error. The wait starts at backoff and doubles per attempt.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.backoff = backoff
	}
}

func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithHttpClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func NewClient(baseUrl, appUrl, token string, opts ...Option) (*Client, error) {
	if len(strings.TrimSpace(token)) == 0 {
		return nil, domain.ErrMissingAPIKey
	}

	c := &Client{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseUrl: strings.TrimRight(baseUrl, "/"),
		appUrl:  strings.TrimRight(appUrl, "/"),
		token:   token,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
		limiter: rate.NewLimiter(rate.Inf, 1),
		l:       log.Logger(log.LOG_API),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type createRequest struct {
	Name string `json:"name"`
}

type createResponse struct {
	Data *struct {
		Uuid          string `json:"uuid"`
		Name          string `json:"name"`
		FilterPhrase  string `json:"filter_phrase"`
		TestAddresses string `json:"comma_separated_test_email_addresses"`
	} `json:"data"`
}

type testResponse struct {
	Data *struct {
		Name         string          `json:"name"`
		Status       string          `json:"status"`
		OverallScore json.RawMessage `json:"overall_score"`
		Emails       []struct {
			Folder   *string `json:"folder"`
			Status   *string `json:"status"`
			Provider *string `json:"provider"`
		} `json:"inbox_placement_test_emails"`
	} `json:"data"`
}

func (c *Client) CreateTest(ctx context.Context, name string) (*domain.CreatedTest, error) {
	const op = "create test"

	resp := &createResponse{}
	err := c.do(ctx, op, http.MethodPost, testsPath, &createRequest{Name: name}, resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil || len(resp.Data.Uuid) == 0 {
		return nil, &domain.RemoteApiError{Op: op, Message: "response contains no test"}
	}

	c.l.WithFields(logrus.Fields{"test": resp.Data.Uuid, "name": name}).Debug("Created test")

	return &domain.CreatedTest{
		Id:             resp.Data.Uuid,
		Name:           resp.Data.Name,
		FilterPhrase:   resp.Data.FilterPhrase,
		ProbeAddresses: SplitAddresses(resp.Data.TestAddresses),
	}, nil
}

func (c *Client) GetTest(ctx context.Context, id string) (*domain.TestDetails, error) {
	const op = "get test"

	resp := &testResponse{}
	err := c.do(ctx, op, http.MethodGet, testsPath+"/"+url.PathEscape(id), nil, resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &domain.RemoteApiError{Op: op, Message: "response contains no test"}
	}

	details := &domain.TestDetails{
		Name:         resp.Data.Name,
		Status:       resp.Data.Status,
		OverallScore: opaque(resp.Data.OverallScore),
		Messages:     make([]domain.TestMessage, 0, len(resp.Data.Emails)),
	}
	for _, e := range resp.Data.Emails {
		details.Messages = append(details.Messages, domain.TestMessage{
			Folder:   deref(e.Folder),
			Status:   deref(e.Status),
			Provider: deref(e.Provider),
		})
	}

	return details, nil
}

func (c *Client) TestUrl(id string) string {
	return c.appUrl + testsPath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &domain.RemoteApiError{Op: op, Err: fmt.Errorf("could not marshal request: %w", err)}
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			err := sleep(ctx, c.wait(attempt, lastErr))
			if err != nil {
				return &domain.RemoteApiError{Op: op, Err: err}
			}
		}

		err := c.limiter.Wait(ctx)
		if err != nil {
			return &domain.RemoteApiError{Op: op, Err: err}
		}

		status, respBody, header, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return &domain.RemoteApiError{Op: op, Err: ctx.Err()}
			}
			lastErr = &domain.RemoteApiError{Op: op, Err: err}
			if !resendable(method, err) {
				return lastErr
			}
			c.l.WithFields(logrus.Fields{"op": op, "attempt": attempt + 1, "error": err}).Debug("Request failed")
			continue
		}

		if status >= 200 && status < 300 {
			err = json.Unmarshal(respBody, result)
			if err != nil {
				return &domain.RemoteApiError{Op: op, Status: status, Err: fmt.Errorf("could not deserialize response: %w", err)}
			}
			return nil
		}

		apiErr := &domain.RemoteApiError{Op: op, Status: status, Message: errorMessage(respBody)}
		if !retryStatus[status] {
			return apiErr
		}
		lastErr = &retryableError{apiErr, retryAfter(header)}
		c.l.WithFields(logrus.Fields{"op": op, "attempt": attempt + 1, "status": status}).Debug("Retryable response")
	}

	var retryable *retryableError
	if errors.As(lastErr, &retryable) {
		return retryable.RemoteApiError
	}
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (int, []byte, http.Header, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, bodyReader)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("could not perform request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("could not read response: %w", err)
	}

	return resp.StatusCode, respBody, resp.Header, nil
}

type retryableError struct {
	*domain.RemoteApiError
	after time.Duration
}

// wait never exceeds the request timeout, a server asking for a longer
// Retry-After gets retried earlier.
func (c *Client) wait(attempt int, lastErr error) time.Duration {
	d := c.backoff * time.Duration(1<<(attempt-1))
	var retryable *retryableError
	if errors.As(lastErr, &retryable) && retryable.after > 0 {
		d = retryable.after
	}

	limit := c.client.Timeout
	if limit <= 0 {
		limit = DefaultTimeout
	}
	if d > limit {
		d = limit
	}
	return d
}

// resendable reports whether a request that failed without a response may be
// sent again. POST creates a test, it is only repeated when the connection
// was never established.
func resendable(method string, err error) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if len(value) == 0 {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func errorMessage(body []byte) string {
	msg := struct {
		Message string `json:"message"`
	}{}
	if json.Unmarshal(body, &msg) == nil && len(msg.Message) > 0 {
		return msg.Message
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// SplitAddresses splits the probe address list returned by the API, which is
// comma separated but tolerated with semicolons.
func SplitAddresses(list string) []string {
	addresses := []string{}
	for _, a := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' }) {
		a = strings.TrimSpace(a)
		if len(a) > 0 {
			addresses = append(addresses, a)
		}
	}
	return addresses
}

func opaque(raw json.RawMessage) string {
	text := strings.TrimSpace(string(raw))
	if len(text) == 0 || text == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return text
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
