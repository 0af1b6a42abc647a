package driver

import (
	"github.com/dgraph-io/ristretto"

	"github.com/takoeight0821/neo/ast"
)

// Cache keeps parsed programs keyed by their source text.
// The AST is never modified by evaluation, so a cached program can be run any
// number of times.
type Cache struct {
	cache *ristretto.Cache
}

// NewCache creates a cache holding about size programs.
func NewCache(size int) (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(size * 10),
		MaxCost:     int64(size),
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{cache: cache}, nil
}

func (c *Cache) Get(source string) ([]ast.Node, bool) {
	v, ok := c.cache.Get(source)
	if !ok {
		return nil, false
	}
	nodes, ok := v.([]ast.Node)
	return nodes, ok
}

// Put stores nodes and waits until the write is visible to Get.
func (c *Cache) Put(source string, nodes []ast.Node) {
	c.cache.Set(source, nodes, 1)
	c.cache.Wait()
}

func (c *Cache) Close() {
	c.cache.Close()
}
