package repository

import (
	"strconv"
	"sync"
	"time"

	"lingoquiz-backend/internal/model"

	"golang.org/x/sync/singleflight"
)

// TestDefinitionCache fronts the test-definition read path with a TTL cache
// so a burst of submissions for one test loads it once. Cached tests are
// treated as immutable; admin updates call Invalidate.
type TestDefinitionCache struct {
	repo  TestRepository
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[uint]cachedTest
}

type cachedTest struct {
	test      *model.Test
	expiresAt time.Time
}

func NewTestDefinitionCache(repo TestRepository, ttl time.Duration) *TestDefinitionCache {
	return &TestDefinitionCache{
		repo:  repo,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[uint]cachedTest),
	}
}

func (c *TestDefinitionCache) GetTestWithQuestions(id uint) (*model.Test, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.test, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		// Re-check in case another goroutine filled the entry.
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.test, nil
		}
		c.mu.RUnlock()

		test, err := c.repo.FindByIDWithQuestions(id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[id] = cachedTest{test: test, expiresAt: now.Add(c.ttl)}
		c.mu.Unlock()
		return test, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Test), nil
}

func (c *TestDefinitionCache) Invalidate(id uint) {
	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
}
