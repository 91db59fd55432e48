package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/carslab/funnel-api/internal/models"
	"github.com/carslab/funnel-api/pkg/metrics"
)

// Storage keys kept compatible with the browser-era local storage names so
// exported journals and support tooling keep matching.
const (
	emailKeyPrefix    = "carslab_user_email:"
	phoneKeyPrefix    = "carslab_user_phone:"
	userDataKeyPrefix = "carslab_user_data:"

	contactCacheCheckPeriod = time.Minute
)

// ContactCache is the hot layer in front of the contact repository. Values
// are scoped by visitor id and expire on their own; the database stays the
// source of truth.
type ContactCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewContactCache creates a contact cache with the given TTL in seconds
func NewContactCache(ttlSeconds int) *ContactCache {
	return &ContactCache{
		cache: gocache.New(time.Duration(ttlSeconds)*time.Second, contactCacheCheckPeriod),
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

// SetEmail caches the persisted email for a visitor
func (c *ContactCache) SetEmail(visitorID, email string) {
	c.cache.Set(emailKeyPrefix+visitorID, email, c.ttl)
}

// GetEmail returns the cached email for a visitor
func (c *ContactCache) GetEmail(visitorID string) (string, bool) {
	data, found := c.cache.Get(emailKeyPrefix + visitorID)
	if !found {
		metrics.CacheMisses.WithLabelValues("contact_email").Inc()
		return "", false
	}
	metrics.CacheHits.WithLabelValues("contact_email").Inc()

	email, ok := data.(string)
	return email, ok
}

// SetPhone caches the persisted phone for a visitor
func (c *ContactCache) SetPhone(visitorID, phone string) {
	c.cache.Set(phoneKeyPrefix+visitorID, phone, c.ttl)
}

// GetPhone returns the cached phone for a visitor
func (c *ContactCache) GetPhone(visitorID string) (string, bool) {
	data, found := c.cache.Get(phoneKeyPrefix + visitorID)
	if !found {
		metrics.CacheMisses.WithLabelValues("contact_phone").Inc()
		return "", false
	}
	metrics.CacheHits.WithLabelValues("contact_phone").Inc()

	phone, ok := data.(string)
	return phone, ok
}

// SetUserData caches the full contact record for a visitor
func (c *ContactCache) SetUserData(visitorID string, record *models.ContactRecord) {
	c.cache.Set(userDataKeyPrefix+visitorID, record, c.ttl)
}

// GetUserData returns the cached contact record for a visitor
func (c *ContactCache) GetUserData(visitorID string) (*models.ContactRecord, bool) {
	data, found := c.cache.Get(userDataKeyPrefix + visitorID)
	if !found {
		metrics.CacheMisses.WithLabelValues("contact_user_data").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("contact_user_data").Inc()

	record, ok := data.(*models.ContactRecord)
	if !ok {
		c.cache.Delete(userDataKeyPrefix + visitorID)
		return nil, false
	}
	return record, true
}
