// Package sceneport loads mesh scene documents and hands them to the
// exporters under export/.
package sceneport

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/anatomap/sceneport/internal/modelcache"
)

const defaultTimeSteps = 10

// Loader parses documents and their model sources. A loader may be
// shared; repeated loads of unchanged model files are served from an
// in-memory cache, which is what keeps watch-driven re-exports cheap.
type Loader struct {
	mu    sync.Mutex
	cfg   Config
	cache *modelcache.Cache
}

func NewLoader(cfg *Config) (*Loader, error) {
	l := &Loader{}
	if cfg != nil {
		l.cfg = *cfg
	}
	l.cfg.normalize()

	if !l.cfg.DisableModelCache {
		budget := l.cfg.ModelCacheBytes
		if budget == 0 {
			budget = modelcache.DefaultBudget()
		}

		c, err := modelcache.New(modelcache.DefaultShards, budget)
		if err != nil {
			return nil, err
		}

		l.cache = c
	}

	return l, nil
}

// LoadDocument parses the document at path together with every model
// source it references.
func (l *Loader) LoadDocument(path string) (*Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := readSourceFile(path)
	if err != nil {
		return nil, err
	}

	return parseDocument(l, path, raw)
}

func (l *Loader) loadModelSource(path string) (*modelSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceFileReadFailed, "%s: %s", path, err.Error())
	}

	if l.cache != nil {
		if cached, ok := l.cache.Get(path); ok {
			src := cached.(*modelSource)
			if src.size == fi.Size() && src.modTime.Equal(fi.ModTime()) {
				return src, nil
			}

			l.cache.Remove(path)
		}
	}

	raw, err := readSourceFile(path)
	if err != nil {
		return nil, err
	}

	src, err := parseModelSource(path, raw)
	if err != nil {
		return nil, err
	}
	src.modTime = fi.ModTime()

	if l.cache != nil {
		l.cache.Put(path, src, uint64(len(raw)))
	}

	return src, nil
}

// LoadDocument is the convenience entry point for one-shot loads; it
// uses a throwaway loader without a model cache.
func LoadDocument(path string) (*Document, error) {
	l, err := NewLoader(&Config{DisableModelCache: true})
	if err != nil {
		return nil, err
	}

	return l.LoadDocument(path)
}
