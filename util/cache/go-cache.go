package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type GoCache struct {
	c *gocache.Cache
}

func NewGoCache() *GoCache {
	return &GoCache{c: gocache.New(gocache.NoExpiration, 30*time.Second)}
}

func (this GoCache) Get(key string) ([]byte, bool) {
	v, ok := this.c.Get(key)
	if !ok {
		return nil, false
	}

	b, ok := v.([]byte)
	return b, ok
}

func (this *GoCache) Set(key string, val []byte) error {
	this.c.Set(key, val, gocache.NoExpiration)
	return nil
}

func (this *GoCache) SetWithExpire(key string, val []byte, exp time.Duration) error {
	this.c.Set(key, val, exp)
	return nil
}

func (this *GoCache) Lock(key string, status Status, exp time.Duration) Status {
	key = "LOCK|" + key

	for {
		if err := this.c.Add(key, status, exp); err == nil {
			return ""
		}

		// The lock may expire or be released between `Add` and `Get`, in which
		// case it is free again and `Add` is retried.
		if v, ok := this.c.Get(key); ok {
			return v.(Status)
		}
	}
}

func (this *GoCache) Locked(key string) Status {
	v, ok := this.c.Get("LOCK|" + key)
	if !ok {
		return ""
	}

	return v.(Status)
}

func (this *GoCache) Unlock(key string) {
	this.c.Delete("LOCK|" + key)
}
