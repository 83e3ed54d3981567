// Package watch implements the CLI's --watch flag: re-run a Lox script
// whenever its source file's content actually changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/aledsdavies/lox/internal/fingerprint"
)

// Run watches path and invokes onChange each time its content fingerprint
// differs from the last observed one, until ctx is canceled. Editors that
// write via rename-and-replace (most do) fire fsnotify.Create rather than
// fsnotify.Write, so both are treated as "maybe changed" and left to the
// fingerprint comparison to decide whether a re-run is warranted.
func Run(ctx context.Context, path string, onChange func(), logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	last, err := readFingerprint(path)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			next, err := readFingerprint(path)
			if err != nil {
				logger.Warn("watch: failed to read changed file", "path", path, "error", err)
				continue
			}
			if next == last {
				continue
			}
			last = next
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

func readFingerprint(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fingerprint.Of(source), nil
}
