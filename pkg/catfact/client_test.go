package catfact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestFetchOne(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fact":"Cats sleep 70% of their lives","length":29}`))
	})

	client := NewClient(Options{URL: server.URL})
	fact, err := client.FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cats sleep 70% of their lives", fact)
}

func TestFetchOneFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
			want: ErrUpstream,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			want: ErrUpstream,
		},
		{
			name: "missing fact field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"length":0}`))
			},
			want: ErrNoFact,
		},
		{
			name: "blank fact",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"fact":"  "}`))
			},
			want: ErrNoFact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newServer(t, tt.handler)

			_, err := NewClient(Options{URL: server.URL}).FetchOne(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFetchOneTimeout(t *testing.T) {
	release := make(chan struct{})
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewClient(Options{URL: server.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := client.FetchOne(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchOneTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(Options{URL: url}).FetchOne(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchOneDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := NewClient(Options{URL: server.URL}).FetchOne(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualValues(t, 1, calls.Load())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := NewClient(Options{URL: server.URL, BreakerThreshold: 2, BreakerCooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.FetchOne(ctx)
		require.ErrorIs(t, err, ErrUpstream)
	}
	assert.Equal(t, "open", client.State())

	_, err := client.FetchOne(ctx)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.EqualValues(t, 2, calls.Load(), "open breaker must not call the api")
}

func TestMissingFactDoesNotTripBreaker(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	client := NewClient(Options{URL: server.URL, BreakerThreshold: 1})
	for i := 0; i < 3; i++ {
		_, err := client.FetchOne(context.Background())
		assert.ErrorIs(t, err, ErrNoFact)
	}
	assert.Equal(t, "closed", client.State())
}

func TestNewClientFromConfig(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fact":"configured"}`))
	})

	client := NewClientFromConfig(utils.NewConfig(map[string]string{
		"CATFACT_API_URL": server.URL,
		"CATFACT_TIMEOUT": "2s",
	}))

	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	fact, err := client.FetchOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "configured", fact)
}
