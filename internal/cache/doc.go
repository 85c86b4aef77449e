// Package cache provides the bounded LRU cache shared by the texture and
// glyph caches.
//
//	c := cache.New[string, *pixel.Texture](64)
//	c.Set("grass", tex)
//	tex, ok := c.Get("grass")
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
