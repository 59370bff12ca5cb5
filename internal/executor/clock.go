package executor

import (
	"sync"
	"time"
)

// Clock is the time source of blocks, in unix seconds.
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock only moves when told to.
type ManualClock struct {
	lock sync.Mutex
	now  uint64
}

func NewManualClock(now uint64) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *ManualClock) Set(now uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

func (c *ManualClock) Advance(seconds uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now += seconds
}
