package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Router resolves the classifier a tenant should use. Tenants configure
// provider rows in the database; tenants without rows fall through to the
// process-wide config built from environment variables, when one is set.
type Router struct {
	factory  *Factory
	cache    *classifierCache
	db       ProviderStore
	fallback *ProviderConfig
}

type ProviderStore interface {
	ListProviders(ctx context.Context, tenantID int64) ([]ProviderConfig, error)
	GetDefaultProvider(ctx context.Context, tenantID int64) (*ProviderConfig, error)
	GetProviderByID(ctx context.Context, tenantID int64, providerID int64) (*ProviderConfig, error)
}

type cachedClassifier struct {
	classifier Classifier
	expires    time.Time
}

type classifierCache struct {
	mu    sync.Mutex
	items map[string]cachedClassifier
	ttl   time.Duration
}

func newClassifierCache(ttl time.Duration) *classifierCache {
	return &classifierCache{items: map[string]cachedClassifier{}, ttl: ttl}
}

func (c *classifierCache) get(key string) (Classifier, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok || time.Now().After(item.expires) {
		delete(c.items, key)
		return nil, false
	}
	return item.classifier, true
}

func (c *classifierCache) set(key string, classifier Classifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cachedClassifier{classifier: classifier, expires: time.Now().Add(c.ttl)}
}

func NewRouter(factory *Factory, store ProviderStore, fallback *ProviderConfig) *Router {
	return &Router{factory: factory, cache: newClassifierCache(5 * time.Minute), db: store, fallback: fallback}
}

func (r *Router) GetClassifier(ctx context.Context, tenantID, providerID int64) (Classifier, error) {
	key := classifierKey(tenantID, providerID)
	if classifier, ok := r.cache.get(key); ok {
		return classifier, nil
	}
	config, err := r.db.GetProviderByID(ctx, tenantID, providerID)
	if err != nil || config == nil {
		return nil, errors.New("provider not found")
	}
	classifier := r.factory.CreateClassifier(config)
	if classifier == nil {
		return nil, errors.New("provider not supported")
	}
	r.cache.set(key, classifier)
	return classifier, nil
}

func (r *Router) GetDefaultClassifier(ctx context.Context, tenantID int64) (Classifier, error) {
	key := classifierKey(tenantID, 0)
	if classifier, ok := r.cache.get(key); ok {
		return classifier, nil
	}
	config, err := r.db.GetDefaultProvider(ctx, tenantID)
	if err != nil || config == nil {
		config = r.fallback
	}
	if config == nil {
		return nil, errors.New("default provider not found")
	}
	classifier := r.factory.CreateClassifier(config)
	if classifier == nil {
		return nil, errors.New("provider not supported")
	}
	r.cache.set(key, classifier)
	return classifier, nil
}

func classifierKey(tenantID, providerID int64) string {
	return fmt.Sprintf("%d:%d", tenantID, providerID)
}
