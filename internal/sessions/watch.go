package sessions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch follows the store's backing file and reloads the credential when
// another process changes or deletes it. It blocks until ctx is done.
// Stores not backed by a file return immediately.
func (s *Store) Watch(ctx context.Context) error {
	fileStorage, ok := s.storage.(*FileStorage)
	if !ok {
		return nil
	}

	dir := filepath.Dir(fileStorage.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create session watcher: %w", err)
	}
	defer watcher.Close()

	// Writes go through a rename, so the directory is watched rather than
	// the file itself.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(fileStorage.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			logrus.WithFields(logrus.Fields{
				"path":  event.Name,
				"event": event.Op.String(),
			}).Debugln("Session file changed, reloading")

			s.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Warnln("Session watcher error")
		}
	}
}

func (s *Store) reload() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.credential = s.load()
}
