package catfact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethanbaker/catfacts/pkg/utils"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultURL     = "https://catfact.ninja/fact"
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrUpstream covers timeouts, transport errors, non-2xx statuses, unreadable bodies and an open breaker
	ErrUpstream = errors.New("cat fact api unavailable")

	// ErrNoFact is returned when the api answered but without a fact
	ErrNoFact = errors.New("no fact in response")
)

// Options configures a Client. Zero values select the defaults.
type Options struct {
	URL     string
	Timeout time.Duration

	// BreakerThreshold is the number of consecutive failures that opens the breaker
	BreakerThreshold uint32
	// BreakerCooldown is how long the breaker stays open before probing again
	BreakerCooldown time.Duration
}

// Client fetches single facts from the public cat fact api. It never retries.
type Client struct {
	url        string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
}

// NewClient creates a client with a bounded timeout and a circuit breaker
func NewClient(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BreakerThreshold == 0 {
		opts.BreakerThreshold = 5
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = 30 * time.Second
	}

	log := utils.GetLogger().WithField("component", "catfact")
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "catfact-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithField("from", from.String()).WithField("to", to.String()).Warn("circuit breaker state change")
		},
		// An answer without a fact still means the api is up
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoFact)
		},
	})

	return &Client{
		url:        opts.URL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cb:         cb,
	}
}

// NewClientFromConfig reads CATFACT_API_URL and CATFACT_TIMEOUT
func NewClientFromConfig(cfg *utils.Config) *Client {
	return NewClient(Options{
		URL:     cfg.GetWithDefault("CATFACT_API_URL", DefaultURL),
		Timeout: cfg.GetDurationWithDefault("CATFACT_TIMEOUT", DefaultTimeout),
	})
}

// FetchOne makes one call to the api and returns the fact it carries
func (c *Client) FetchOne(ctx context.Context) (string, error) {
	fact, err := c.cb.Execute(func() (string, error) {
		return c.fetch(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return fact, err
}

// State reports the breaker state, used by the health endpoint
func (c *Client) State() string {
	return c.cb.State().String()
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "catfacts/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Fact string `json:"fact"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	fact := strings.TrimSpace(payload.Fact)
	if fact == "" {
		return "", ErrNoFact
	}

	return fact, nil
}
