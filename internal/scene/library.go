package scene

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/Faultbox/lidshade/internal/logger"
)

// Library caches loaded scenes by path.
type Library struct {
	cache *lru.Cache // path -> *Scene
	load  func(string) (*Scene, error)
	log   *zap.Logger
}

// NewLibrary returns a library holding at most size scenes.
func NewLibrary(size int) (*Library, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("scene cache: %w", err)
	}
	return &Library{
		cache: cache,
		load:  Load,
		log:   logger.Named("scene"),
	}, nil
}

// Get returns the scene at path, loading it on a miss.
func (l *Library) Get(path string) (*Scene, error) {
	if v, ok := l.cache.Get(path); ok {
		return v.(*Scene), nil
	}
	s, err := l.load(path)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	if l.cache.Add(path, s) {
		l.log.Debug("scene evicted from cache")
	}
	lo, hi := s.Bounds.Min.Array(), s.Bounds.Max.Array()
	l.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("objects", len(s.Objects)),
		zap.Float32s("min", lo[:]),
		zap.Float32s("max", hi[:]),
	)
	return s, nil
}

// Len returns the number of cached scenes.
func (l *Library) Len() int { return l.cache.Len() }

// Purge drops every cached scene.
func (l *Library) Purge() { l.cache.Purge() }
