package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Dialog kinds tracked per visitor.
const (
	DialogCapture       = "capture"
	DialogQualification = "qualification"
)

// DialogSession is the server-side state of one dialog for one visitor
type DialogSession struct {
	State     string
	OptedOut  bool
	UpdatedAt time.Time
}

// SessionCache tracks dialog state machines per visitor. Sessions expire on
// their own; an expired session just means the dialog starts from closed.
type SessionCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionCache creates a session cache with the given TTL in seconds
func NewSessionCache(ttlSeconds int) *SessionCache {
	ttl := time.Duration(ttlSeconds) * time.Second
	return &SessionCache{
		cache: gocache.New(ttl, time.Minute),
		ttl:   ttl,
	}
}

func sessionKey(visitorID, dialog string) string {
	return "dialog:" + dialog + ":" + visitorID
}

// Get returns the dialog session, or a fresh closed one when none exists
func (c *SessionCache) Get(visitorID, dialog string) *DialogSession {
	if data, found := c.cache.Get(sessionKey(visitorID, dialog)); found {
		if session, ok := data.(*DialogSession); ok {
			return session
		}
	}
	return &DialogSession{State: "closed"}
}

// Put stores the dialog session, refreshing its TTL
func (c *SessionCache) Put(visitorID, dialog string, session *DialogSession) {
	session.UpdatedAt = time.Now()
	c.cache.Set(sessionKey(visitorID, dialog), session, c.ttl)
}

// Delete removes the dialog session
func (c *SessionCache) Delete(visitorID, dialog string) {
	c.cache.Delete(sessionKey(visitorID, dialog))
}
