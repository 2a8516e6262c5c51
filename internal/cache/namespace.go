package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/birbparty/go-confluence/sdk"
)

// NamespacedCache scopes every key to one Confluence identity.
type NamespacedCache struct {
	store     sdk.ResponseCache
	namespace string
}

var _ sdk.ResponseCache = (*NamespacedCache)(nil)

// Namespaced wraps store so every key is scoped to identity. Keys carry a
// hash of identity, never identity itself.
func Namespaced(store sdk.ResponseCache, identity string) *NamespacedCache {
	sum := sha256.Sum256([]byte(identity))
	return &NamespacedCache{
		store:     store,
		namespace: hex.EncodeToString(sum[:8]),
	}
}

// Namespace returns the key segment used for this identity
func (n *NamespacedCache) Namespace() string {
	return n.namespace
}

func (n *NamespacedCache) key(key string) string {
	return n.namespace + ":" + key
}

// Get retrieves a value for this identity
func (n *NamespacedCache) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.key(key))
}

// Set stores a value for this identity
func (n *NamespacedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return n.store.Set(ctx, n.key(key), value, ttl)
}

// Delete removes a value for this identity
func (n *NamespacedCache) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.key(key))
}
