// Package openf1 implements the provider on top of the OpenF1 REST API.
package openf1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mpapenbr/f1-sectorwalk/log"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider"
	"github.com/mpapenbr/f1-sectorwalk/pkg/provider/cache"
)

const (
	DefaultURL  = "https://api.openf1.org/v1"
	DefaultRate = 3.0
	// consecutive failures which open the circuit breaker
	maxFailures = 5
)

var ErrStatus = errors.New("unexpected response status")

type (
	Client struct {
		baseURL  string
		http     *http.Client
		limiter  *rate.Limiter
		cb       *gobreaker.CircuitBreaker[[]byte]
		cache    *cache.Store
		validate *validator.Validate
		l        *log.Logger
	}
	Option func(c *Client)
)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithRate limits the requests per second (<= 0: unlimited)
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
		} else {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithCache stores successful responses keyed by request url
func WithCache(s *cache.Store) Option {
	return func(c *Client) {
		c.cache = s
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: 60 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(DefaultRate), 1),
		validate: validator.New(),
		l:        log.Default().Named("provider.openf1"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "openf1",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, provider.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.l.Warn("circuit breaker state changed",
				log.String("name", name),
				log.String("from", from.String()),
				log.String("to", to.String()))
		},
	})
	return c
}

// fetch returns the response body of endpoint with the given (raw) query.
// A 404 response is reported as provider.ErrNotFound.
func (c *Client) fetch(ctx context.Context, endpoint, query string) ([]byte, error) {
	url := c.baseURL + "/" + endpoint
	if query != "" {
		url += "?" + query
	}
	if c.cache != nil {
		data, ok, err := c.cache.Get(url)
		if err != nil {
			c.l.Warn("cache lookup failed", log.String("url", url), log.ErrorField(err))
		} else if ok {
			c.l.Debug("cache hit", log.String("url", url))
			return data, nil
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(url, data); err != nil {
			c.l.Warn("cache store failed", log.String("url", url), log.ErrorField(err))
		}
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()
	c.l.Debug("request",
		log.String("url", url),
		log.Int("status", resp.StatusCode),
		log.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", url, provider.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s: %w: %d", url, ErrStatus, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return data, nil
}

// get decodes the records of an endpoint. Records failing validation are
// dropped. Not found responses yield an empty result.
func get[T any](ctx context.Context, c *Client, endpoint, query string) ([]T, error) {
	data, err := c.fetch(ctx, endpoint, query)
	if errors.Is(err, provider.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw []T
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	ret := make([]T, 0, len(raw))
	for i := range raw {
		if err := c.validate.Struct(&raw[i]); err != nil {
			c.l.Warn("dropping invalid record",
				log.String("endpoint", endpoint),
				log.Int("index", i),
				log.ErrorField(err))
			continue
		}
		ret = append(ret, raw[i])
	}
	return ret, nil
}
