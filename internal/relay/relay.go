// Package relay submits the site's forms to the external form-relay endpoint
// and falls back to a pre-filled mailto link when the relay cannot take them.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"calebs/ccsWebsite/internal/models"
)

// Channel says how a submission left the site.
type Channel int

const (
	// ChannelPrimary means the relay endpoint accepted the form.
	ChannelPrimary Channel = iota
	// ChannelFallback means the visitor was handed a mailto link instead.
	ChannelFallback
)

func (c Channel) String() string {
	switch c {
	case ChannelPrimary:
		return "delivered"
	case ChannelFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ErrNoEndpoint is the fallback cause when no relay endpoint is configured.
var ErrNoEndpoint = errors.New("relay: no endpoint configured")

// StatusError is the fallback cause for a non-2xx relay response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay: HTTP %d", e.StatusCode)
}

// Result is the outcome of one submission attempt.
type Result struct {
	ID        string
	Channel   Channel
	MailtoURL string
	// Cause is why the primary path was skipped or failed. Nil on ChannelPrimary.
	Cause error
}

// Delivered is true for both channels: the site treats "attempted" as sent.
func (r Result) Delivered() bool {
	return r.Channel == ChannelPrimary || r.Channel == ChannelFallback
}

// Client posts forms to the relay endpoint.
type Client struct {
	endpoint string
	mailTo   string
	http     *resty.Client
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each relay request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// New returns a Client posting to endpoint. mailTo is the business address
// used in fallback links. An empty endpoint makes every submission fall back.
func New(endpoint, mailTo string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		mailTo:   mailTo,
		http:     resty.New().SetTimeout(15 * time.Second),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured relay URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SubmitEnquiry relays the contact form, or falls back to a mailto link.
func (c *Client) SubmitEnquiry(ctx context.Context, f models.EnquiryForm) Result {
	return c.submit(ctx, "enquiry", f.Fields(), func() string {
		return EnquiryMailto(c.mailTo, f)
	})
}

// SubmitReview relays the review form, or falls back to a mailto link.
func (c *Client) SubmitReview(ctx context.Context, f models.ReviewForm) Result {
	return c.submit(ctx, "review", f.Fields(), func() string {
		return ReviewMailto(c.mailTo, f)
	})
}

func (c *Client) submit(ctx context.Context, kind string, fields []models.Field, mailto func() string) Result {
	res := Result{ID: uuid.NewString()}
	log := c.log.With(zap.String("submission", res.ID), zap.String("form", kind))

	err := c.post(ctx, fields)
	if err == nil {
		res.Channel = ChannelPrimary
		log.Debug("form relayed", zap.String("endpoint", c.endpoint))
		return res
	}

	res.Channel = ChannelFallback
	res.Cause = err
	res.MailtoURL = mailto()
	log.Warn("form submit failed, falling back to mailto", zap.Error(err))
	return res
}

func (c *Client) post(ctx context.Context, fields []models.Field) error {
	if c.endpoint == "" {
		return ErrNoEndpoint
	}

	form := make(map[string]string, len(fields))
	for _, f := range fields {
		form[f.Name] = f.Value
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetMultipartFormData(form).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("relay: post %s: %w", c.endpoint, err)
	}
	if !resp.IsSuccess() {
		return &StatusError{StatusCode: resp.StatusCode()}
	}
	return nil
}
