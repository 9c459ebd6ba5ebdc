package cache

import (
	"context"
	"time"
)

// namespaced prefixes every key before delegating to the inner cache.
type namespaced struct {
	inner  Cache
	prefix string
}

// Namespace returns a view of c that prefixes all keys with prefix.
// Namespaces nest: Namespace(Namespace(c, "http:"), "npm:") uses "http:npm:".
// A nil inner cache yields a NullCache view.
func Namespace(c Cache, prefix string) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if ns, ok := c.(*namespaced); ok {
		return &namespaced{inner: ns.inner, prefix: ns.prefix + prefix}
	}
	return &namespaced{inner: c, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return n.inner.Set(ctx, n.prefix+key, data, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}

// Close does not close the shared inner cache; its owner does.
func (n *namespaced) Close() error { return nil }

var _ Cache = (*namespaced)(nil)
