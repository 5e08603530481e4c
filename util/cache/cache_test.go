package cache

import (
	"testing"
	"time"
)

func TestLock(t *testing.T) {
	c := NewGoCache()

	if status := c.Lock("fleet|campus", "running greedy", time.Minute); status != "" {
		t.Logf("expected free lock, got %s", status)
		t.FailNow()
	}

	if status := c.Lock("fleet|campus", "running random", time.Minute); status != "running greedy" {
		t.Logf("expected holder status, got %s", status)
		t.FailNow()
	}

	if c.Locked("fleet|campus") != "running greedy" {
		t.Log("expected lock to be held")
		t.FailNow()
	}

	c.Unlock("fleet|campus")

	if c.Locked("fleet|campus") != "" {
		t.Log("expected lock to be released")
		t.FailNow()
	}
}

func TestLockAfterExpiry(t *testing.T) {
	c := NewGoCache()

	if status := c.Lock("fleet|campus", "running greedy", time.Millisecond); status != "" {
		t.Logf("expected free lock, got %s", status)
		t.FailNow()
	}

	time.Sleep(5 * time.Millisecond)

	if status := c.Lock("fleet|campus", "running random", time.Minute); status != "" {
		t.Logf("expected expired lock to be taken over, got %s", status)
		t.FailNow()
	}

	if c.Locked("fleet|campus") != "running random" {
		t.Log("expected the new holder to own the lock")
		t.FailNow()
	}

	if status := c.Lock("fleet|campus", "running fifo", time.Minute); status != "running random" {
		t.Logf("expected holder status, got %s", status)
		t.FailNow()
	}
}

func TestGetSet(t *testing.T) {
	c := NewGoCache()

	c.Set("ranking", []byte("{}"))

	if v, ok := c.Get("ranking"); !ok || string(v) != "{}" {
		t.Log("expected cached value")
		t.FailNow()
	}

	c.SetWithExpire("run|campus", []byte("done"), time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("run|campus"); ok {
		t.Log("expected expired value to be gone")
		t.FailNow()
	}
}
