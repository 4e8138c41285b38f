/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cache.go
Description: Membership cache and query adapter. Every exact word is put to the
external oracle at most once per session; later requests are served from an
append-only cache, and concurrent requests for a word that is still pending
share the single in-flight call.
*/

package lstar

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// CacheEntry is one recorded membership answer
type CacheEntry struct {
	Word   Word `json:"word"`
	Member bool `json:"member"`
}

// MembershipCache memoizes oracle answers. Entries are never overwritten.
type MembershipCache struct {
	mu      sync.RWMutex
	answers map[Word]bool
	order   []Word
}

// NewMembershipCache creates an empty cache
func NewMembershipCache() *MembershipCache {
	return &MembershipCache{answers: make(map[Word]bool)}
}

// Lookup returns the cached answer for w, if any
func (c *MembershipCache) Lookup(w Word) (member bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	member, ok = c.answers[w]
	return member, ok
}

// Store records the answer for w. It returns false and keeps the existing
// answer when w is already cached.
func (c *MembershipCache) Store(w Word, member bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.answers[w]; ok {
		return false
	}
	c.answers[w] = member
	c.order = append(c.order, w)
	return true
}

// Len returns the number of cached answers
func (c *MembershipCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Entries returns the cached answers in the order they were learned
func (c *MembershipCache) Entries() []CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries := make([]CacheEntry, len(c.order))
	for i, w := range c.order {
		entries[i] = CacheEntry{Word: w, Member: c.answers[w]}
	}
	return entries
}

// QueryStats summarizes how membership queries were answered
type QueryStats struct {
	OracleCalls int64 `json:"oracle_calls"`
	CacheHits   int64 `json:"cache_hits"`
	SharedCalls int64 `json:"shared_calls"`
}

// QueryAdapter turns words into answers, consulting the cache first
type QueryAdapter struct {
	oracle MembershipOracle
	cache  *MembershipCache
	logger logrus.FieldLogger

	inflight singleflight.Group
	// serial keeps at most one external call outstanding
	serial sync.Mutex

	oracleCalls atomic.Int64
	cacheHits   atomic.Int64
	sharedCalls atomic.Int64
}

// NewQueryAdapter wires an oracle to a cache. A nil cache gets a fresh one.
func NewQueryAdapter(oracle MembershipOracle, cache *MembershipCache, logger logrus.FieldLogger) *QueryAdapter {
	if cache == nil {
		cache = NewMembershipCache()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &QueryAdapter{
		oracle: oracle,
		cache:  cache,
		logger: logger,
	}
}

// Query answers whether w is in the target language
func (q *QueryAdapter) Query(ctx context.Context, w Word) (bool, error) {
	if member, ok := q.cache.Lookup(w); ok {
		q.cacheHits.Add(1)
		membershipQueries.WithLabelValues("cache").Inc()
		return member, nil
	}

	result, err, shared := q.inflight.Do(string(w), func() (any, error) {
		// Another flight may have finished between the lookup and Do
		if member, ok := q.cache.Lookup(w); ok {
			return member, nil
		}

		q.serial.Lock()
		defer q.serial.Unlock()

		start := time.Now()
		member, err := q.oracle.Ask(ctx, w)
		membershipLatency.Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("membership query %q: %w", w.String(), err)
		}

		q.cache.Store(w, member)
		q.oracleCalls.Add(1)
		membershipQueries.WithLabelValues("oracle").Inc()
		q.logger.WithFields(logrus.Fields{
			"word":     w.String(),
			"member":   member,
			"duration": time.Since(start),
		}).Debug("Membership query answered")
		return member, nil
	})
	if err != nil {
		return false, err
	}
	if shared {
		q.sharedCalls.Add(1)
		membershipQueries.WithLabelValues("shared").Inc()
	}
	return result.(bool), nil
}

// Cache exposes the underlying cache
func (q *QueryAdapter) Cache() *MembershipCache {
	return q.cache
}

// Stats returns a snapshot of the query counters
func (q *QueryAdapter) Stats() QueryStats {
	return QueryStats{
		OracleCalls: q.oracleCalls.Load(),
		CacheHits:   q.cacheHits.Load(),
		SharedCalls: q.sharedCalls.Load(),
	}
}
