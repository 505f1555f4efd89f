// Package robots answers whether the crawler may fetch a URL under the target
// site's robots.txt rules.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"
)

const (
	// robots.txt bodies larger than this are truncated before parsing.
	maxRobotsBytes = 512 << 10
	// defaultTimeout bounds robots.txt fetches when no client is supplied.
	defaultTimeout = 10 * time.Second
)

// Checker fetches robots.txt from the URL's origin on every call. Any failure to
// obtain or parse the rules allows the fetch.
type Checker struct {
	client    *http.Client
	userAgent string
	logger    zerolog.Logger
}

// NewChecker builds a Checker that identifies itself as userAgent. A nil client
// is replaced by one with a 10s timeout.
func NewChecker(client *http.Client, userAgent string, logger zerolog.Logger) *Checker {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Checker{
		client:    client,
		userAgent: userAgent,
		logger:    logger.With().Str("component", "robots").Logger(),
	}
}

// Allowed reports whether rawURL may be fetched by the configured user agent.
func (c *Checker) Allowed(ctx context.Context, rawURL string) bool {
	target, err := url.Parse(rawURL)
	if err != nil || target.Host == "" {
		return true
	}
	robotsURL := RobotsURL(target)

	body, err := c.fetch(ctx, robotsURL)
	if err != nil {
		c.logger.Debug().Err(err).Str("robots_url", robotsURL).Msg("robots.txt unavailable, allowing")
		return true
	}
	if body == nil {
		return true
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		c.logger.Debug().Err(err).Str("robots_url", robotsURL).Msg("robots.txt unparsable, allowing")
		return true
	}
	return data.TestAgent(target.RequestURI(), c.userAgent)
}

// RobotsURL returns scheme://host[:port]/robots.txt for target.
func RobotsURL(target *url.URL) string {
	u := url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}
	return u.String()
}

// fetch returns nil body and nil error when the server answers with anything
// other than 200.
func (c *Checker) fetch(ctx context.Context, robotsURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
}
