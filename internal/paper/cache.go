package paper

import (
	"context"
	"sync"
	"time"
)

// NameCache memoizes exam-name lookups with a short TTL. Every path
// that can change an exam's name must call Invalidate, so the paper
// key scheme never sees a stale name for longer than one in-flight
// request.
type NameCache struct {
	next NameResolver
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[int64]nameEntry
}

type nameEntry struct {
	name    string
	expires time.Time
}

func NewNameCache(next NameResolver, ttl time.Duration) *NameCache {
	return &NameCache{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: map[int64]nameEntry{},
	}
}

func (c *NameCache) ExamName(ctx context.Context, examID int64) (string, error) {
	c.mu.Lock()
	e, ok := c.entries[examID]
	c.mu.Unlock()
	if ok && c.now().Before(e.expires) {
		return e.name, nil
	}
	name, err := c.next.ExamName(ctx, examID)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.entries[examID] = nameEntry{name: name, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return name, nil
}

func (c *NameCache) Invalidate(examID int64) {
	c.mu.Lock()
	delete(c.entries, examID)
	c.mu.Unlock()
}
