package main

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/quotedb/qdb/model"
)

const userCacheMaxEntries int = 1000

// CachingBroker fronts user lookups with an LRU. Login hits
// GetUserNamed on every request, so repeat visitors skip the store.
// Mutations flow through wrapped users and evict their entry; quote
// calls pass straight through.
type CachingBroker struct {
	model.Broker
	mu    sync.RWMutex
	cache *lru.Cache
}

func NewCachingBroker(b model.Broker) *CachingBroker {
	return &CachingBroker{
		Broker: b,
		cache:  lru.New(userCacheMaxEntries),
	}
}

func (c *CachingBroker) fromCache(name string) model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.cache.Get(name); ok {
		return u.(model.User)
	}
	return nil
}

func (c *CachingBroker) putCache(user model.User) {
	c.mu.Lock()
	c.cache.Add(user.GetName(), user)
	c.mu.Unlock()
}

func (c *CachingBroker) evict(name string) {
	c.mu.Lock()
	c.cache.Remove(name)
	c.mu.Unlock()
}

func (c *CachingBroker) wrap(u model.User) model.User {
	return &cachedUser{User: u, broker: c}
}

func (c *CachingBroker) GetUserNamed(name string) (model.User, error) {
	if user := c.fromCache(name); user != nil {
		return c.wrap(user), nil
	}
	user, err := c.Broker.GetUserNamed(name)
	if err != nil {
		return nil, err
	}
	c.putCache(user)
	return c.wrap(user), nil
}

// GetUserByID is not cached (it serves moderation lookups, which are
// rare) but the result is still wrapped so mutations evict any
// name-keyed entry for the same user.
func (c *CachingBroker) GetUserByID(id uint) (model.User, error) {
	user, err := c.Broker.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	return c.wrap(user), nil
}

func (c *CachingBroker) CreateUser(name, password string) (model.User, error) {
	user, err := c.Broker.CreateUser(name, password)
	if err != nil {
		return nil, err
	}
	c.putCache(user)
	return c.wrap(user), nil
}

// cachedUser keeps cached instances immutable. Mutations run against a
// freshly fetched copy and evict the name-keyed entry on success, so a
// reader holding a cache hit only ever sees a complete stale snapshot,
// never a half-written one. Reads delegate unchanged.
type cachedUser struct {
	model.User
	broker *CachingBroker
}

func (u *cachedUser) mutable() (model.User, error) {
	return u.broker.Broker.GetUserByID(u.GetID())
}

func (u *cachedUser) SetFlags(f model.Flags) error {
	fresh, err := u.mutable()
	if err != nil {
		return err
	}
	if err := fresh.SetFlags(f); err != nil {
		return err
	}
	u.broker.evict(u.GetName())
	return nil
}

func (u *cachedUser) UpdatePassword(password string) error {
	fresh, err := u.mutable()
	if err != nil {
		return err
	}
	if err := fresh.UpdatePassword(password); err != nil {
		return err
	}
	u.broker.evict(u.GetName())
	return nil
}

func (u *cachedUser) Erase() error {
	fresh, err := u.mutable()
	if err != nil {
		return err
	}
	if err := fresh.Erase(); err != nil {
		return err
	}
	u.broker.evict(u.GetName())
	return nil
}
