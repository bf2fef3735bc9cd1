package facts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethanbaker/catfacts/pkg/cache"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/sirupsen/logrus"
)

// DefaultListLimit bounds the cached fact listing when no limit is configured
const DefaultListLimit = 5

// FactStore is the source of truth behind the coordinator
type FactStore interface {
	Insert(ctx context.Context, text string) (InsertResult, error)
	List(ctx context.Context, limit int) ([]Fact, error)
	Random(ctx context.Context) (string, bool, error)
	Update(ctx context.Context, id uint, text string) (UpdateResult, error)
	Delete(ctx context.Context, id uint) (DeleteResult, error)
	Like(ctx context.Context, id uint) (LikeResult, error)
	ListLikes(ctx context.Context) ([]LikedFact, error)
	Unlike(ctx context.Context, id uint) (UnlikeResult, error)
}

// Cache is an expiring key/value store
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Source tells where a cached read was answered from
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

// RandomFact is a random fact tagged with where it came from
type RandomFact struct {
	Fact   string `json:"fact"`
	Source Source `json:"source"`
}

// CoordinatorOptions configures a Coordinator. Zero values select the defaults.
type CoordinatorOptions struct {
	TTL       time.Duration
	ListLimit int
}

// Coordinator keeps the all_facts and random_fact cache entries in front of the store.
// Reads repopulate a missing entry; successful writes drop all_facts. random_fact is
// only ever refreshed by expiry, so it may lag a write by up to one TTL.
//
// The cache never decides an outcome: cache failures are logged and the store answers.
type Coordinator struct {
	store     FactStore
	cache     Cache
	ttl       time.Duration
	listLimit int
	log       *logrus.Entry
}

// NewCoordinator wires a store and a cache together
func NewCoordinator(store FactStore, c Cache, opts CoordinatorOptions) *Coordinator {
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}

	return &Coordinator{
		store:     store,
		cache:     c,
		ttl:       opts.TTL,
		listLimit: opts.ListLimit,
		log:       utils.GetLogger().WithField("component", "coordinator"),
	}
}

// ReadAllCached returns the fact listing, from the cache when present
func (c *Coordinator) ReadAllCached(ctx context.Context) ([]Fact, error) {
	raw, hit, err := c.cache.Get(ctx, cache.KeyAllFacts)
	if err != nil {
		c.log.WithError(err).Warn("cache read failed, falling back to store")
	}

	if hit {
		var facts []Fact
		decodeErr := json.Unmarshal([]byte(raw), &facts)
		if decodeErr == nil {
			return facts, nil
		}
		c.log.WithError(decodeErr).Warn("discarding unreadable all_facts entry")
	}

	facts, err := c.store.List(ctx, c.listLimit)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(facts)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, cache.KeyAllFacts, string(payload), c.ttl); err != nil {
		c.log.WithError(err).Warn("cache write failed")
	}

	return facts, nil
}

// ReadRandomCached returns a random fact, reusing the cached pick while it lives.
// The bool is false when the store holds no facts; nothing is cached in that case.
func (c *Coordinator) ReadRandomCached(ctx context.Context) (RandomFact, bool, error) {
	raw, hit, err := c.cache.Get(ctx, cache.KeyRandomFact)
	if err != nil {
		c.log.WithError(err).Warn("cache read failed, falling back to store")
	}
	if hit {
		return RandomFact{Fact: raw, Source: SourceCache}, true, nil
	}

	fact, ok, err := c.store.Random(ctx)
	if err != nil || !ok {
		return RandomFact{}, false, err
	}

	if err := c.cache.Set(ctx, cache.KeyRandomFact, fact, c.ttl); err != nil {
		c.log.WithError(err).Warn("cache write failed")
	}

	return RandomFact{Fact: fact, Source: SourceStore}, true, nil
}

// InvalidateList drops the all_facts entry
func (c *Coordinator) InvalidateList(ctx context.Context) {
	if err := c.cache.Delete(ctx, cache.KeyAllFacts); err != nil {
		c.log.WithError(err).Warn("cache invalidation failed, list may be stale until expiry")
	}
}

// Insert validates and stores a new fact
func (c *Coordinator) Insert(ctx context.Context, text string) (InsertResult, error) {
	text, err := normalizeText(text)
	if err != nil {
		return InsertDuplicate, err
	}

	result, err := c.store.Insert(ctx, text)
	if err == nil && result.OK() {
		c.InvalidateList(ctx)
	}
	return result, err
}

// Update validates and replaces a fact's text
func (c *Coordinator) Update(ctx context.Context, id uint, text string) (UpdateResult, error) {
	text, err := normalizeText(text)
	if err != nil {
		return UpdateNotFound, err
	}

	result, err := c.store.Update(ctx, id, text)
	if err == nil && result.OK() {
		c.InvalidateList(ctx)
	}
	return result, err
}

// Delete removes a fact and its like
func (c *Coordinator) Delete(ctx context.Context, id uint) (DeleteResult, error) {
	result, err := c.store.Delete(ctx, id)
	if err == nil && result.OK() {
		c.InvalidateList(ctx)
	}
	return result, err
}

// Like marks a fact as liked
func (c *Coordinator) Like(ctx context.Context, id uint) (LikeResult, error) {
	result, err := c.store.Like(ctx, id)
	if err == nil && result.OK() {
		c.InvalidateList(ctx)
	}
	return result, err
}

// Unlike removes a fact's like
func (c *Coordinator) Unlike(ctx context.Context, id uint) (UnlikeResult, error) {
	result, err := c.store.Unlike(ctx, id)
	if err == nil && result.OK() {
		c.InvalidateList(ctx)
	}
	return result, err
}

// ListLikes reads likes straight from the store
func (c *Coordinator) ListLikes(ctx context.Context) ([]LikedFact, error) {
	return c.store.ListLikes(ctx)
}
