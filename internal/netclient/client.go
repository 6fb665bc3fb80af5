// Package netclient is the single HTTP entry point of the crawler. It
// attaches the credential headers to every request and paces metadata calls.
package netclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"bilicrawl/internal/config"
)

// Options tunes the client. Zero values mean "no limit".
type Options struct {
	// Timeout bounds the wait for response headers. Bodies are not time-boxed.
	Timeout time.Duration
	// Interval is the minimum spacing between metadata requests.
	Interval time.Duration
	// Transport overrides the round tripper (tests).
	Transport http.RoundTripper
}

// Client performs GET requests on behalf of the crawler.
type Client struct {
	http    *http.Client
	creds   *config.Credentials
	limiter *rate.Limiter
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// New builds a Client. creds must not be nil.
func New(creds *config.Credentials, opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	if creds.CookiesFile != "" {
		if err := LoadNetscapeCookies(jar, creds.CookiesFile); err != nil {
			return nil, fmt.Errorf("load cookies file: %w", err)
		}
	}

	tr := opts.Transport
	if tr == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.ResponseHeaderTimeout = opts.Timeout
		tr = t
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}

	return &Client{
		http:    &http.Client{Transport: tr, Jar: jar},
		creds:   creds,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.creds.UserAgent)
	req.Header.Set("Referer", c.creds.Referer)
	req.Header.Set("Cookie", c.creds.Cookie)
	return req, nil
}

func (c *Client) do(ctx context.Context, url string, paced bool) (*http.Response, error) {
	if paced {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
	}
	req, err := c.newRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// GetJSON fetches url and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.do(ctx, url, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetPage fetches url and returns the whole body.
func (c *Client) GetPage(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.do(ctx, url, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return data, nil
}

// Open starts a streaming download. The caller must close the body.
// Content length is -1 when unknown. Stream requests are not paced.
func (c *Client) Open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	resp, err := c.do(ctx, url, false)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}
