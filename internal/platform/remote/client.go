// Package remote pushes the emergency profile to the IntelliAlert backend.
// Pushes are best-effort: every failure is logged and reported on the Result,
// never surfaced to the user flow that triggered the save.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNotSent marks pushes that were skipped before any network activity,
// such as a missing user ID or an unusable base URL.
var ErrNotSent = errors.New("push not sent")

// Result is the outcome of one push attempt.
type Result struct {
	UserID     string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Success reports whether the backend acknowledged the push with a 2xx.
func (r *Result) Success() bool {
	return r != nil && r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Client sends profile updates to the backend's update_profile endpoint.
type Client struct {
	http    *resty.Client
	baseURL string
	logger  zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "remote-sync").Logger(),
	}
}

// Push sends payload as the JSON body of a PUT to
// {base}/users/update_profile/{userID}. When userID is empty or the base URL
// is unusable, no request is made and the Result carries ErrNotSent. Network
// failures and non-2xx statuses are recorded on the Result and logged; Push
// never panics and never returns nil.
func (c *Client) Push(ctx context.Context, userID string, payload any) *Result {
	res := &Result{UserID: userID}
	if userID == "" {
		res.Err = fmt.Errorf("%w: no user id", ErrNotSent)
		c.logger.Warn().Msg("profile push skipped: no user id")
		return res
	}
	if u, err := url.Parse(c.baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		res.Err = fmt.Errorf("%w: invalid base url %q", ErrNotSent, c.baseURL)
		c.logger.Warn().Str("base_url", c.baseURL).Msg("profile push skipped: invalid base url")
		return res
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetPathParam("userId", userID).
		Put("/users/update_profile/{userId}")
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = fmt.Errorf("push profile: %w", err)
		c.logger.Error().
			Err(err).
			Str("user_id", userID).
			Dur("duration", res.Duration).
			Msg("profile push failed")
		return res
	}

	res.StatusCode = resp.StatusCode()
	if !res.Success() {
		res.Err = fmt.Errorf("push profile: backend returned %d", res.StatusCode)
		c.logger.Error().
			Int("status", res.StatusCode).
			Str("user_id", userID).
			Dur("duration", res.Duration).
			Msg("profile push rejected")
		return res
	}

	c.logger.Info().
		Int("status", res.StatusCode).
		Str("user_id", userID).
		Dur("duration", res.Duration).
		Msg("profile pushed")
	return res
}

// PushAsync runs Push on its own goroutine and delivers the Result on the
// returned channel (buffered, so the result is never dropped if nobody
// listens). In-flight pushes are not cancelled when new ones start; the
// backend applies whole-document overwrites, so racing pushes are harmless.
func (c *Client) PushAsync(ctx context.Context, userID string, payload any) <-chan *Result {
	ch := make(chan *Result, 1)
	go func() {
		ch <- c.Push(ctx, userID, payload)
		close(ch)
	}()
	return ch
}
