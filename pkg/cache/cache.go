// Package cache pkg/cache/cache.go
//
// In-process entity cache: the single source of truth for the most
// recently known value per query key, with per-key-class freshness
// control, snapshot/restore for optimistic rollback, and per-key change
// notification.
//
// Stored values are treated as immutable: writers replace whole values
// and never mutate a stored slice or struct in place. Snapshot/Restore
// rely on that to give verbatim rollback without deep copies.
package cache

import (
	"sync"
	"time"
)

const subscriberBuffer = 16

// Policies holds the staleness window per key class. Zero means a value
// is stale as soon as it is read; Immutable means never stale.
type Policies struct {
	ServicesTTL time.Duration
	StatusesTTL time.Duration
	DetailTTL   time.Duration
	EventsTTL   time.Duration
}

// Immutable marks a key class whose values never go stale.
const Immutable = time.Duration(-1)

// DefaultPolicies mirrors the dashboard's tuning: the service list
// changes rarely, status and detail reads are always revalidated, and
// event pages are append-only history that never changes once fetched.
func DefaultPolicies() Policies {
	return Policies{
		ServicesTTL: 5 * time.Minute,
		StatusesTTL: 0,
		DetailTTL:   0,
		EventsTTL:   Immutable,
	}
}

func (p Policies) ttl(c Class) time.Duration {
	switch c {
	case ClassServices:
		return p.ServicesTTL
	case ClassStatuses:
		return p.StatusesTTL
	case ClassEvents:
		return p.EventsTTL
	default:
		return p.DetailTTL
	}
}

type entry struct {
	value     any
	fetchedAt time.Time
	invalid   bool
}

// Token captures a cache entry for later restoration.
type Token struct {
	key     Key
	present bool
	entry   entry
}

type subscriber struct {
	prefix Key
	ch     chan Key
}

// Store is the entity cache. Safe for concurrent use; the synchronizer
// is its only writer.
type Store struct {
	mu       sync.RWMutex
	policies Policies
	entries  map[Key]entry
	subs     map[int]*subscriber
	nextSub  int
	now      func() time.Time
}

// NewStore creates an empty cache with the given freshness policies.
func NewStore(policies Policies) *Store {
	return &Store{
		policies: policies,
		entries:  make(map[Key]entry),
		subs:     make(map[int]*subscriber),
		now:      time.Now,
	}
}

// Get returns the last stored value for key together with its staleness.
// ok is false when the key has never been set.
func (s *Store) Get(key Key) (value any, stale, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, true, false
	}

	return e.value, s.isStale(key, e), true
}

func (s *Store) isStale(key Key, e entry) bool {
	if e.invalid {
		return true
	}

	ttl := s.policies.ttl(key.Class())
	if ttl == Immutable {
		return false
	}

	return s.now().Sub(e.fetchedAt) >= ttl
}

// Set overwrites the value for key and marks it fresh as of now.
func (s *Store) Set(key Key, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, fetchedAt: s.now()}
	s.mu.Unlock()

	s.notify(key)
}

// Invalidate marks the entry stale so the next access refetches.
// Subscribers are notified even when the key has no stored value yet.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	if e, ok := s.entries[key]; ok {
		e.invalid = true
		s.entries[key] = e
	}
	s.mu.Unlock()

	s.notify(key)
}

// Delete removes the entry entirely (used when restarting an event
// page sequence from scratch).
func (s *Store) Delete(key Key) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	s.notify(key)
}

// DeletePrefix removes every entry whose key falls under prefix.
func (s *Store) DeletePrefix(prefix Key) {
	s.mu.Lock()

	removed := make([]Key, 0)

	for k := range s.entries {
		if k.HasPrefix(prefix) {
			delete(s.entries, k)
			removed = append(removed, k)
		}
	}
	s.mu.Unlock()

	for _, k := range removed {
		s.notify(k)
	}
}

// Snapshot captures the current entry for key, including its absence.
func (s *Store) Snapshot(key Key) Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]

	return Token{key: key, present: ok, entry: e}
}

// Restore overwrites the entry for the token's key with the captured
// state, verbatim. Restoring an absent snapshot removes the entry.
func (s *Store) Restore(token Token) {
	s.mu.Lock()
	if token.present {
		s.entries[token.key] = token.entry
	} else {
		delete(s.entries, token.key)
	}
	s.mu.Unlock()

	s.notify(token.key)
}

// Subscribe registers interest in every key under prefix. The returned
// channel receives the changed key on Set/Invalidate/Delete/Restore;
// notifications are dropped rather than block a slow subscriber, which
// is safe because subscribers re-read the cache on wakeup. The cancel
// func unregisters and closes the channel.
func (s *Store) Subscribe(prefix Key) (<-chan Key, func()) {
	ch := make(chan Key, subscriberBuffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscriber{prefix: prefix, ch: ch}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		sub, ok := s.subs[id]
		if ok {
			delete(s.subs, id)
		}
		s.mu.Unlock()

		if ok {
			close(sub.ch)
		}
	}

	return ch, cancel
}

func (s *Store) notify(key Key) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if !key.HasPrefix(sub.prefix) {
			continue
		}

		select {
		case sub.ch <- key:
		default:
		}
	}
}
