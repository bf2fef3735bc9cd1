// Package apitest runs the full API against in-memory dependencies for tests.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethanbaker/catfacts/internal/api"
	"github.com/ethanbaker/catfacts/pkg/cache"
	"github.com/ethanbaker/catfacts/pkg/catfact"
	"github.com/ethanbaker/catfacts/pkg/facts"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Upstream is a fake external fact api whose answer can be swapped per test
type Upstream struct {
	mu      sync.Mutex
	handler http.HandlerFunc
	server  *httptest.Server
}

// Respond makes the fake api answer with the given status and body
func (u *Upstream) Respond(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

// RespondFact makes the fake api answer with one fact
func (u *Upstream) RespondFact(fact string) {
	u.Respond(http.StatusOK, fmt.Sprintf(`{"fact":%q,"length":%d}`, fact, len(fact)))
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	handler := u.handler
	u.mu.Unlock()

	handler(w, r)
}

// Fixture is a running API with its backing services exposed
type Fixture struct {
	Server      *httptest.Server
	Engine      *gin.Engine
	Store       *facts.Store
	Coordinator *facts.Coordinator
	Redis       *miniredis.Miniredis
	Upstream    *Upstream

	stopOnce sync.Once
}

// New starts the API on a private SQLite database, a miniredis instance and a fake upstream
func New(t *testing.T) *Fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Store
	db, err := facts.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := facts.NewStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// Cache
	server, err := miniredis.Run()
	require.NoError(t, err)
	redisCache := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1}))
	t.Cleanup(func() { redisCache.Close() })

	// Upstream
	upstream := &Upstream{}
	upstream.RespondFact("Cats have five toes on their front paws")
	upstream.server = httptest.NewServer(http.HandlerFunc(upstream.serve))
	t.Cleanup(upstream.server.Close)

	coordinator := facts.NewCoordinator(store, redisCache, facts.CoordinatorOptions{})
	engine := api.NewEngine(utils.NewConfig(nil), api.Dependencies{
		Facts:    coordinator,
		Fetcher:  catfact.NewClient(catfact.Options{URL: upstream.server.URL}),
		Database: store,
		Cache:    redisCache,
	})

	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)

	fx := &Fixture{
		Server:      ts,
		Engine:      engine,
		Store:       store,
		Coordinator: coordinator,
		Redis:       server,
		Upstream:    upstream,
	}
	t.Cleanup(fx.StopCache)

	return fx
}

// StopCache shuts the redis server down so calls against it fail
func (fx *Fixture) StopCache() {
	fx.stopOnce.Do(fx.Redis.Close)
}
