package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
)

const watchDebounce = 500 * time.Millisecond

var watchCmd = &cli.Command{
	Name:  "watch",
	Usage: "re-export every format whenever the document or its model sources change",
	Flags: []cli.Flag{flagLevels, flagAnnotations, flagASCII},
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return watchAndExport(ctx, s)
	},
}

// watchAndExport exports once, then blocks re-exporting on changes
// until the context is cancelled. A single loader is kept for the
// whole session so unchanged model sources are served from the cache
// on every re-export.
func watchAndExport(ctx context.Context, s *runSettings) error {
	loader, err := sceneport.NewLoader(nil)
	if err != nil {
		return err
	}

	doc, err := s.load(loader)
	if err != nil {
		return err
	}

	if err := exportAll(s, loader); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	addSources := func(doc *sceneport.Document) {
		// Watch the containing directories: editors save via
		// rename, which drops watches placed on the file itself.
		for _, p := range doc.SourcePaths() {
			dir := filepath.Dir(p)
			if watched[dir] {
				continue
			}

			if err := watcher.Add(dir); err != nil {
				logger.Warn("could not watch directory", zap.String("dir", dir), zap.Error(err))
				continue
			}
			watched[dir] = true
		}
	}
	addSources(doc)

	sources := make(map[string]bool)
	for _, p := range doc.SourcePaths() {
		sources[filepath.Clean(p)] = true
	}

	logger.Info("watching for changes", zap.Int("paths", len(sources)))

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sources[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			logger.Debug("source changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))

		case <-trigger:
			logger.Info("re-exporting")
			doc, err := s.load(loader)
			if err != nil {
				logger.Error("reload failed", zap.Error(err))
				continue
			}

			if err := exportAll(s, loader); err != nil {
				logger.Error("re-export failed", zap.Error(err))
				continue
			}

			addSources(doc)
			for _, p := range doc.SourcePaths() {
				sources[filepath.Clean(p)] = true
			}
		}
	}
}
